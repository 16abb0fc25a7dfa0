package histfile

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher follows one growing hand-history file and emits each hand's text
// once the hand is complete, meaning a later hand header has appeared or
// the written summary is followed by the blank separator run.
type Watcher struct {
	Path string

	offset   int64
	pending  string
	watcher  *fsnotify.Watcher
	done     chan struct{}
	mu       sync.Mutex
	readMu   sync.Mutex
	stopOnce sync.Once

	cleanPath string
	onHands   func(blobs []string)
	onNewFile func(path string)
	onError   func(err error)
}

type WatcherConfig struct {
	// OnHands receives complete hand blobs in file order.
	OnHands func(blobs []string)
	// OnNewFile fires when the client rolls over to a new history file in
	// the watched directory.
	OnNewFile func(path string)
	OnError   func(err error)
}

// NewWatcher creates a watcher for the given hand-history file path.
func NewWatcher(path string, cfg WatcherConfig) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		Path:      path,
		watcher:   w,
		done:      make(chan struct{}),
		cleanPath: filepath.Clean(path),
		onHands:   cfg.OnHands,
		onNewFile: cfg.OnNewFile,
		onError:   cfg.OnError,
	}, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start() error {
	slog.Info("history watcher starting", "path", w.Path)
	// Watch the directory (more reliable than watching the file directly).
	dir := filepath.Dir(w.Path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}

	// Read existing content first only when no explicit offset is set.
	// This keeps caller-specified offsets (e.g. EOF after initial import).
	if w.offset == 0 {
		if err := w.readNewContent(); err != nil {
			_ = err // non-fatal
		}
	}

	go w.watchLoop()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		slog.Info("history watcher stopped", "path", w.Path)
		close(w.done)
		_ = w.watcher.Close()
	})
}

// SetOffset sets the initial read offset, for resuming past an already
// imported prefix.
func (w *Watcher) SetOffset(offset int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.offset = offset
}

func (w *Watcher) watchLoop() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) && isHistoryFile(event.Name) {
				if filepath.Clean(event.Name) != w.cleanPath && w.onNewFile != nil {
					w.onNewFile(event.Name)
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if filepath.Clean(event.Name) == w.cleanPath {
					if err := w.readNewContent(); err != nil && w.onError != nil {
						w.onError(err)
					}
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		case <-ticker.C:
			// Periodic poll as fallback
			if err := w.readNewContent(); err != nil && w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) readNewContent() error {
	w.readMu.Lock()
	defer w.readMu.Unlock()

	f, err := os.Open(w.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if info.Size() < w.offset {
		// Truncated or replaced: start over, dropping any partial hand.
		w.offset = 0
		w.pending = ""
	}
	if info.Size() <= w.offset {
		return nil // No new content
	}

	if _, err := f.Seek(w.offset, io.SeekStart); err != nil {
		return err
	}
	chunk := make([]byte, info.Size()-w.offset)
	if _, err := io.ReadFull(f, chunk); err != nil {
		return err
	}
	w.offset = info.Size()
	w.pending += string(chunk)

	blobs, rest := extractComplete(w.pending)
	w.pending = rest

	if len(blobs) > 0 && w.onHands != nil {
		slog.Debug("new hands detected", "path", w.Path, "hands", len(blobs))
		w.onHands(blobs)
	}
	return nil
}

// extractComplete splits pending text into finished hand blobs and the
// still-growing remainder. A hand is finished when a later header has been
// seen, or when its summary section is already followed by a blank line.
func extractComplete(pending string) (blobs []string, rest string) {
	lines := strings.Split(pending, "\n")

	starts := make([]int, 0, 4)
	for i, line := range lines {
		if reHandStart.MatchString(line) {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		return nil, pending
	}

	for k := 0; k < len(starts)-1; k++ {
		blobs = append(blobs, joinHand(lines[starts[k]:starts[k+1]]))
	}

	last := lines[starts[len(starts)-1]:]
	if handLooksComplete(last) {
		blobs = append(blobs, joinHand(last))
		return blobs, ""
	}
	return blobs, strings.Join(last, "\n")
}

func joinHand(lines []string) string {
	return strings.TrimRight(strings.Join(lines, "\n"), "\n \t") + "\n"
}

// handLooksComplete reports whether the trailing hand already carries its
// summary section terminated by the blank separator run.
func handLooksComplete(lines []string) bool {
	sawSummary := false
	for _, line := range lines {
		if strings.Contains(line, "*** SUMMARY ***") {
			sawSummary = true
		}
		if sawSummary && strings.TrimSpace(line) == "" {
			return true
		}
	}
	return false
}

// collectHistoryFiles builds the list of hand-history files found in the
// known per-platform client directories. It does not sort the results.
func collectHistoryFiles() []string {
	var files []string
	for _, dir := range historyDirectories() {
		matches, err := filepath.Glob(filepath.Join(dir, "HH*.txt"))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}
	return files
}

// DetectAllHistoryFiles finds all hand-history files sorted newest first.
func DetectAllHistoryFiles() ([]string, error) {
	candidates := collectHistoryFiles()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no hand history files found in known locations")
	}
	sortByModTimeDesc(candidates)
	return candidates, nil
}

// DetectLatestHistoryFile finds the most recently written hand-history file.
func DetectLatestHistoryFile() (string, error) {
	files, err := DetectAllHistoryFiles()
	if err != nil {
		return "", err
	}
	return files[0], nil
}

// sortByModTimeDesc sorts paths newest-first using a single os.Stat per
// file, avoiding repeated stat calls inside the sort comparator.
func sortByModTimeDesc(paths []string) {
	modTimes := make(map[string]time.Time, len(paths))
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			modTimes[p] = info.ModTime()
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		return modTimes[paths[i]].After(modTimes[paths[j]])
	})
}

// historyDirectories returns the per-OS locations the client writes
// hand-history exports to, one subdirectory per account.
func historyDirectories() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}

	var roots []string
	switch runtime.GOOS {
	case "windows":
		roots = []string{
			filepath.Join(os.Getenv("LOCALAPPDATA"), "PokerStars", "HandHistory"),
			filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local", "PokerStars", "HandHistory"),
		}
	case "darwin":
		roots = []string{
			filepath.Join(home, "Library", "Application Support", "PokerStars", "HandHistory"),
		}
	default:
		roots = []string{
			filepath.Join(home, ".wine", "drive_c", "users", os.Getenv("USER"), "AppData", "Local", "PokerStars", "HandHistory"),
		}
	}

	dirs := make([]string, 0, len(roots))
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}
	return dirs
}

func isHistoryFile(path string) bool {
	name := filepath.Base(path)
	matched, err := filepath.Match("HH*.txt", name)
	return err == nil && matched
}
