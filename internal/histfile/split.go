// Package histfile deals with PokerStars hand-history files on disk: it
// slices a multi-hand file into per-hand text blobs and can follow a
// growing file live, emitting each hand once it is complete.
package histfile

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
)

// A new hand begins at its header line. Everything between two headers
// belongs to the earlier hand; text before the first header is discarded.
var reHandStart = regexp.MustCompile(`^PokerStars\s+(?:Hand|Game)\s+#\d+`)

// Split reads a hand-history stream and returns one blob per hand. Blank
// separator runs between hands are dropped; each blob ends with a single
// trailing newline.
func Split(r io.Reader) ([]string, error) {
	var blobs []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		blobs = append(blobs, strings.Join(current, "\n")+"\n")
		current = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if reHandStart.MatchString(line) {
			flush()
			current = append(current, line)
			continue
		}
		if current == nil {
			continue
		}
		if strings.TrimSpace(line) == "" {
			// Keep interior blank lines, trim the separator run at flush.
			current = append(current, "")
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	for i, b := range blobs {
		blobs[i] = strings.TrimRight(b, "\n") + "\n"
	}
	return blobs, nil
}

// SplitFile is Split over the file at path.
func SplitFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Split(f)
}
