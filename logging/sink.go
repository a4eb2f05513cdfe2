package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultMaxFileSize = 100 * 1024 * 1024
	filePrefix         = "pharmly-"
	fileSuffix         = ".log"
	pruneInterval      = 24 * time.Hour
)

// WeeklyFile is an io.Writer that starts a new file every ISO week and
// whenever the current file would grow past maxSize. Files older than the
// retention window are removed once a day.
type WeeklyFile struct {
	dir       string
	retention time.Duration
	maxSize   int64
	now       func() time.Time

	mu     sync.Mutex
	file   *os.File
	week   string
	part   int
	size   int64
	closed bool

	pruning   bool
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// OpenWeeklyFile creates dir if needed and opens the file for the current week.
// A zero maxSize disables size-based splitting.
func OpenWeeklyFile(dir string, retentionWeeks int, maxSize int64) (*WeeklyFile, error) {
	w, err := newWeeklyFile(dir, retentionWeeks, maxSize, time.Now)
	if err != nil {
		return nil, err
	}
	w.pruning = true
	go w.pruneLoop()
	return w, nil
}

func newWeeklyFile(dir string, retentionWeeks int, maxSize int64, now func() time.Time) (*WeeklyFile, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	if retentionWeeks <= 0 {
		retentionWeeks = 4
	}

	w := &WeeklyFile{
		dir:       dir,
		retention: time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxSize:   maxSize,
		now:       now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.openWeekLocked(weekKey(now())); err != nil {
		return nil, err
	}
	return w, nil
}

// weekKey formats t as YYYY-Www using the ISO week
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func fileName(week string, part int) string {
	if part == 0 {
		return filePrefix + week + fileSuffix
	}
	return fmt.Sprintf("%s%s.%d%s", filePrefix, week, part, fileSuffix)
}

// lastPart finds the highest split number already on disk for week
func (w *WeeklyFile) lastPart(week string) int {
	matches, _ := filepath.Glob(filepath.Join(w.dir, filePrefix+week+"*"+fileSuffix))
	last := 0
	for _, m := range matches {
		rest := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), filePrefix+week), fileSuffix)
		if rest == "" {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(rest, ".")); err == nil && n > last {
			last = n
		}
	}
	return last
}

// openWeekLocked continues the newest file of week, or starts the next split
// when that file is already full. Caller holds w.mu.
func (w *WeeklyFile) openWeekLocked(week string) error {
	part := w.lastPart(week)
	if info, err := os.Stat(filepath.Join(w.dir, fileName(week, part))); err == nil {
		if w.maxSize > 0 && info.Size() >= w.maxSize {
			part++
		}
	}
	return w.openPartLocked(week, part)
}

func (w *WeeklyFile) openPartLocked(week string, part int) error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
		w.file = nil
	}

	path := filepath.Join(w.dir, fileName(week, part))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	w.file = f
	w.week = week
	w.part = part
	w.size = size
	return nil
}

// Write appends p, rotating first when the week changed or the size limit
// would be exceeded. A single record larger than the limit still gets written.
func (w *WeeklyFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, fmt.Errorf("log file is closed")
	}

	week := weekKey(w.now())
	switch {
	case week != w.week:
		if err := w.openWeekLocked(week); err != nil {
			return 0, err
		}
	case w.maxSize > 0 && w.size > 0 && w.size+int64(len(p)) > w.maxSize:
		if err := w.openPartLocked(week, w.part+1); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Path is the file currently written to
func (w *WeeklyFile) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return filepath.Join(w.dir, fileName(w.week, w.part))
}

// Prune removes log files last modified before the retention window. The
// file currently open is never removed.
func (w *WeeklyFile) Prune() (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	active := filepath.Base(w.Path())
	cutoff := w.now().Add(-w.retention)
	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == active || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}

func (w *WeeklyFile) pruneLoop() {
	defer close(w.done)

	if _, err := w.Prune(); err != nil {
		fmt.Fprintf(os.Stderr, "log pruning failed: %v\n", err)
	}

	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			if _, err := w.Prune(); err != nil {
				fmt.Fprintf(os.Stderr, "log pruning failed: %v\n", err)
			}
		}
	}
}

// Close stops pruning and closes the current file
func (w *WeeklyFile) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stop)
		if w.pruning {
			select {
			case <-w.done:
			case <-time.After(time.Second):
			}
		}

		w.mu.Lock()
		defer w.mu.Unlock()
		w.closed = true
		if w.file != nil {
			err = w.file.Close()
			w.file = nil
		}
	})
	return err
}
