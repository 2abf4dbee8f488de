// Package plans persists the delete plans produced by a scan so they can be
// reviewed later without rescanning.
package plans

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Nomadcxx/findedupe/internal/media"
	"github.com/Nomadcxx/findedupe/internal/paths"
	"github.com/spf13/afero"
)

const reportFile = "duplicates.json"

// Summary contains summary stats for a report
type Summary struct {
	TotalGroups      int   `json:"total_groups"`
	FilesToDelete    int   `json:"files_to_delete"`
	SpaceReclaimable int64 `json:"space_reclaimable"`
}

// Report is one saved scan result.
type Report struct {
	CreatedAt time.Time           `json:"created_at"`
	Command   string              `json:"command"`
	Mode      media.OperationMode `json:"operation_mode"`
	Summary   Summary             `json:"summary"`
	Plans     []media.DeletePlan  `json:"plans"`
}

// NewReport wraps plans and fills in the summary.
func NewReport(command string, mode media.OperationMode, deletePlans []media.DeletePlan) *Report {
	r := &Report{
		CreatedAt: time.Now().UTC(),
		Command:   command,
		Mode:      mode,
		Plans:     deletePlans,
	}
	if r.Plans == nil {
		r.Plans = []media.DeletePlan{}
	}
	r.Summary.TotalGroups = len(r.Plans)
	for _, p := range r.Plans {
		r.Summary.FilesToDelete += p.ItemCount()
		r.Summary.SpaceReclaimable += p.TotalBytes
	}
	return r
}

// Store reads and writes the report file in one directory.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore returns a store rooted at dir. A nil fs means the OS filesystem
// and an empty dir means ~/.config/findedupe/plans.
func NewStore(fs afero.Fs, dir string) (*Store, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		d, err := paths.PlansDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get plans directory: %w", err)
		}
		dir = d
	}
	return &Store{fs: fs, dir: dir}, nil
}

// Path returns the report file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, reportFile)
}

// Save writes r, replacing any previous report.
func (s *Store) Save(r *Report) error {
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create plans directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.Path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Load returns the saved report, or nil when none exists.
func (s *Store) Load() (*Report, error) {
	data, err := afero.ReadFile(s.fs, s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}

// Delete removes the saved report. Removing a missing report is not an error.
func (s *Store) Delete() error {
	if err := s.fs.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}
