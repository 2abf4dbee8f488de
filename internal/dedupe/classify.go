// Package dedupe turns a scanned library into duplicate groups and dry-run
// delete plans using the exclusion, matching and quality packages.
package dedupe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/Nomadcxx/findedupe/internal/exclusion"
	"github.com/Nomadcxx/findedupe/internal/logging"
	"github.com/Nomadcxx/findedupe/internal/media"
	"golang.org/x/sync/errgroup"
)

const component = "dedupe"

// Candidate is one scanned item together with the library it came from.
type Candidate struct {
	LibraryID   string             `json:"library_id"`
	Fingerprint *media.Fingerprint `json:"fingerprint"`
}

// Exclusion records why a candidate was kept out of grouping.
type Exclusion struct {
	Candidate Candidate
	Decision  exclusion.Decision
}

// LoadCandidates decodes a JSON array of candidates.
func LoadCandidates(r io.Reader) ([]Candidate, error) {
	var candidates []Candidate
	if err := json.NewDecoder(r).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return candidates, nil
}

// Classifier splits candidates into those eligible for duplicate detection
// and those excluded by the engine.
type Classifier struct {
	Engine      *exclusion.Engine
	Roots       []string
	Settings    *exclusion.Settings
	Concurrency int
	// PageSize bounds how many candidates are in flight per page; zero means
	// a single page.
	PageSize int
	Logger   *logging.Logger
}

// Filter evaluates candidates page by page, in parallel within a page. The
// kept fingerprints keep the input order. A cancelled context aborts the pass
// and returns its error.
func (c *Classifier) Filter(ctx context.Context, candidates []Candidate) ([]*media.Fingerprint, []Exclusion, error) {
	engine := c.Engine
	if engine == nil {
		engine = exclusion.NewEngine(c.Logger)
		engine.UpdateExclusionRules(c.Settings)
	}

	decisions := make([]exclusion.Decision, len(candidates))

	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = len(candidates)
	}
	for start := 0; start < len(candidates); start += pageSize {
		end := min(start+pageSize, len(candidates))
		if err := c.decidePage(ctx, engine, candidates[start:end], decisions[start:end]); err != nil {
			return nil, nil, err
		}
		c.Logger.Debug(component, "Classified page",
			logging.F("from", start),
			logging.F("to", end))
	}

	kept := make([]*media.Fingerprint, 0, len(candidates))
	var excluded []Exclusion
	for i, d := range decisions {
		if d.Excluded {
			excluded = append(excluded, Exclusion{Candidate: candidates[i], Decision: d})
			continue
		}
		kept = append(kept, candidates[i].Fingerprint)
	}

	c.Logger.Info(component, "Classified candidates",
		logging.F("total", len(candidates)),
		logging.F("kept", len(kept)),
		logging.F("excluded", len(excluded)))

	return kept, excluded, nil
}

func (c *Classifier) decidePage(ctx context.Context, engine *exclusion.Engine, page []Candidate, out []exclusion.Decision) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit())

	for i := range page {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = engine.Decide(page[i].Fingerprint, page[i].LibraryID, c.Settings, c.Roots)
			return nil
		})
	}
	return g.Wait()
}

func (c *Classifier) limit() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}
