// Command stars-handhistory parses PokerStars hand-history files.
//
// It can batch-import a file and print per-hand summaries, scan only the
// headers of a large archive, follow a growing history file live, and load
// a player notes XML export into the local notes database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AkatukiSora/stars-handhistory/internal/application"
	"github.com/AkatukiSora/stars-handhistory/internal/applog"
	"github.com/AkatukiSora/stars-handhistory/internal/handhistory"
	"github.com/AkatukiSora/stars-handhistory/internal/histfile"
	"github.com/AkatukiSora/stars-handhistory/internal/notes"
	"github.com/AkatukiSora/stars-handhistory/internal/persistence"
)

var (
	version   = "dev"
	commit    = "local"
	buildDate = "unknown"
)

func main() {
	var (
		filePath    = flag.String("file", "", "hand history file to import (defaults to the latest known file)")
		headersOnly = flag.Bool("headers-only", false, "parse only hand headers")
		watch       = flag.Bool("watch", false, "follow the file and print hands as they complete")
		notesPath   = flag.String("notes", "", "player notes XML file to import into the notes database")
		dbPath      = flag.String("db", "handhistory-notes.db", "path of the notes database")
		debug       = flag.Bool("debug", false, "enable debug logging")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("stars-handhistory %s (%s, %s)\n", version, commit, buildDate)
		return
	}

	applog.Init(*debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *filePath, *headersOnly, *watch, *notesPath, *dbPath); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, filePath string, headersOnly, watch bool, notesPath, dbPath string) error {
	if notesPath != "" {
		return importNotes(ctx, notesPath, dbPath)
	}

	if filePath == "" {
		detected, err := histfile.DetectLatestHistoryFile()
		if err != nil {
			return fmt.Errorf("no -file given and %w", err)
		}
		filePath = detected
	}

	if watch {
		return watchFile(ctx, filePath)
	}

	importer := application.NewImporter(slog.Default())
	importer.HeadersOnly = headersOnly
	report, err := importer.ImportFile(ctx, filePath)
	if err != nil {
		return err
	}

	for _, h := range report.Hands {
		printHand(h, headersOnly)
	}
	fmt.Printf("%d hands parsed, %d skipped\n", report.Parsed, report.Skipped)
	return nil
}

func importNotes(ctx context.Context, notesPath, dbPath string) error {
	doc, err := notes.ParseFile(notesPath)
	if err != nil {
		return fmt.Errorf("load notes: %w", err)
	}

	var repo persistence.NoteRepository
	sqlite, err := persistence.NewSQLiteRepository(dbPath)
	if err != nil {
		slog.Warn("failed to open notes database, using in-memory store", "error", err)
		repo = persistence.NewMemoryRepository()
	} else {
		defer sqlite.Close()
		repo = sqlite
	}

	n, err := application.ImportNotes(ctx, doc, repo)
	if err != nil {
		return fmt.Errorf("import notes: %w", err)
	}
	fmt.Printf("%d notes imported for %d players\n", n, len(doc.Players()))
	return nil
}

func watchFile(ctx context.Context, path string) error {
	importer := application.NewImporter(slog.Default())

	w, err := histfile.NewWatcher(path, histfile.WatcherConfig{
		OnHands: func(blobs []string) {
			report, err := importer.ImportHands(ctx, blobs)
			if err != nil {
				slog.Warn("live import failed", "error", err)
				return
			}
			for _, h := range report.Hands {
				printHand(h, false)
			}
		},
		OnNewFile: func(newPath string) {
			slog.Info("new history file detected", "path", newPath)
		},
		OnError: func(err error) {
			slog.Warn("watcher error", "error", err)
		},
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	<-ctx.Done()
	return nil
}

func printHand(h *handhistory.Hand, headersOnly bool) {
	hd := h.Header
	if headersOnly {
		fmt.Printf("#%s %s %s %s %s/%s %s\n",
			hd.ID, hd.GameType, hd.Variant, hd.Limit, hd.SB, hd.BB,
			hd.Date.Format("2006-01-02 15:04:05"))
		return
	}

	board := ""
	for i, c := range h.Board {
		if i > 0 {
			board += " "
		}
		board += c.String()
	}
	fmt.Printf("#%s %s %s pot=%s rake=%s board=[%s] winners=%v\n",
		hd.ID, hd.GameType, hd.Variant, h.TotalPot, h.Rake, board, h.Winners)
}
