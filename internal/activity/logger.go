// Package activity keeps a day-per-file JSONL audit trail of exclusion
// decisions and proposed deletions, pruned after the configured retention.
package activity

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type Action string

const (
	ActionExcluded Action = "excluded"
	ActionPlanned  Action = "planned"
	ActionScan     Action = "scan"
)

const (
	filePrefix = "activity-"
	fileSuffix = ".jsonl"
	dateLayout = "2006-01-02"
)

type Entry struct {
	Timestamp time.Time `json:"ts"`
	Action    Action    `json:"action"`
	Path      string    `json:"path,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	Title     string    `json:"title,omitempty"`
	LibraryID string    `json:"library_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Rule      string    `json:"rule,omitempty"`
	GroupKey  string    `json:"group_key,omitempty"`
	Keeper    string    `json:"keeper,omitempty"`
	Items     int       `json:"items,omitempty"`
	Bytes     int64     `json:"bytes,omitempty"`
	Mode      string    `json:"mode,omitempty"`
}

type Logger struct {
	mu          sync.Mutex
	logDir      string
	currentFile *os.File
	currentDate string
	now         func() time.Time
}

// NewLogger writes under dir/activity, creating it when needed.
func NewLogger(dir string) (*Logger, error) {
	logDir := filepath.Join(dir, "activity")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}
	return &Logger{logDir: logDir, now: time.Now}, nil
}

// Log appends entry to today's file, stamping it with the current time.
func (l *Logger) Log(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.Timestamp = l.now()

	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	today := entry.Timestamp.Format(dateLayout)
	if l.currentDate != today || l.currentFile == nil {
		if err := l.rotateFile(today); err != nil {
			return err
		}
	}

	_, err = l.currentFile.Write(append(line, '\n'))
	return err
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentFile == nil {
		return nil
	}
	err := l.currentFile.Close()
	l.currentFile = nil
	return err
}

// PruneOld removes day files older than retentionDays. Zero or negative
// retention keeps everything.
func (l *Logger) PruneOld(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := l.now().AddDate(0, 0, -retentionDays)

	files, err := l.logFiles()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range files {
		fileDate, err := time.Parse(dateLayout, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			continue
		}
		if fileDate.Before(cutoff) {
			if err := os.Remove(filepath.Join(l.logDir, name)); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func (l *Logger) rotateFile(date string) error {
	if l.currentFile != nil {
		l.currentFile.Close()
	}

	file, err := os.OpenFile(filepath.Join(l.logDir, filePrefix+date+fileSuffix), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	l.currentFile = file
	l.currentDate = date
	return nil
}

func (l *Logger) Dir() string {
	return l.logDir
}

// RecentEntries returns up to limit entries, newest first.
func (l *Logger) RecentEntries(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	files, err := l.logFiles()
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	var results []Entry
	for _, name := range files {
		entries, err := readEntries(filepath.Join(l.logDir, name))
		if err != nil {
			continue
		}
		for i := len(entries) - 1; i >= 0; i-- {
			results = append(results, entries[i])
			if len(results) >= limit {
				return results, nil
			}
		}
	}
	return results, nil
}

func (l *Logger) logFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(l.logDir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range dirEntries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), filePrefix) && strings.HasSuffix(e.Name(), fileSuffix) {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// readEntries skips lines that do not decode.
func readEntries(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}
