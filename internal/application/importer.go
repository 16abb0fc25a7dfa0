// Package application wires the history-file loader to the hand parser:
// batch import of whole files, live import of completed hands, and loading
// a notes XML document into the notes repository.
package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/AkatukiSora/stars-handhistory/internal/handhistory"
	"github.com/AkatukiSora/stars-handhistory/internal/histfile"
)

// Report summarizes one import run. Hands holds the successfully parsed
// hands in file order; Skipped counts hands dropped for fatal parse errors.
type Report struct {
	Hands   []*handhistory.Hand
	Parsed  int
	Skipped int
}

// Importer parses hand-history files. A fatal error in one hand never
// aborts the batch: the hand is logged and skipped, matching the parser's
// own skip-and-log policy for single lines.
type Importer struct {
	log *slog.Logger
	// HeadersOnly stops each hand after the header phase. Useful for fast
	// scans over large archives where only the metadata matters.
	HeadersOnly bool
}

func NewImporter(log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{log: log}
}

// ImportFile splits and parses the history file at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return im.ImportReader(ctx, f)
}

// ImportReader splits and parses a history stream. Hands are parsed
// concurrently on a bounded worker pool; the returned order is file order.
func (im *Importer) ImportReader(ctx context.Context, r io.Reader) (*Report, error) {
	blobs, err := histfile.Split(r)
	if err != nil {
		return nil, fmt.Errorf("split hand history: %w", err)
	}
	return im.ImportHands(ctx, blobs)
}

// ImportHands parses pre-split hand blobs.
func (im *Importer) ImportHands(ctx context.Context, blobs []string) (*Report, error) {
	if len(blobs) == 0 {
		return &Report{}, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > 4 {
		workers = 4
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(blobs) {
		workers = len(blobs)
	}

	type job struct {
		idx  int
		blob string
	}
	jobCh := make(chan job, len(blobs))
	parsed := make([]*handhistory.Hand, len(blobs))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if ctx.Err() != nil {
					return
				}
				parsed[j.idx] = im.parseOne(j.blob)
			}
		}()
	}
	for i, b := range blobs {
		jobCh <- job{idx: i, blob: b}
	}
	close(jobCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{}
	for _, h := range parsed {
		if h == nil {
			report.Skipped++
			continue
		}
		report.Hands = append(report.Hands, h)
		report.Parsed++
	}
	im.log.Info("import complete", "parsed", report.Parsed, "skipped", report.Skipped)
	return report, nil
}

// parseOne parses a single blob, returning nil when the hand is unusable.
func (im *Importer) parseOne(blob string) *handhistory.Hand {
	h := handhistory.NewWithLogger(blob, im.log)

	parse := h.Parse
	if im.HeadersOnly {
		parse = h.ParseHeader
	}
	if err := parse(); err != nil {
		im.log.Warn("skipping unparseable hand", "error", err, "snippet", snippet(blob))
		return nil
	}
	return h
}

// snippet returns the first line of a blob for diagnostics.
func snippet(blob string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(blob), "\n")
	const maxLen = 120
	if len(line) > maxLen {
		line = line[:maxLen]
	}
	return line
}
