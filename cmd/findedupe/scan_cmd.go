package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"

	"github.com/Nomadcxx/findedupe/internal/activity"
	"github.com/Nomadcxx/findedupe/internal/config"
	"github.com/Nomadcxx/findedupe/internal/dedupe"
	"github.com/Nomadcxx/findedupe/internal/exclusion"
	"github.com/Nomadcxx/findedupe/internal/logging"
	"github.com/Nomadcxx/findedupe/internal/matching"
	"github.com/Nomadcxx/findedupe/internal/media"
	"github.com/Nomadcxx/findedupe/internal/paths"
	"github.com/Nomadcxx/findedupe/internal/plans"
	"github.com/Nomadcxx/findedupe/internal/quality"
	"github.com/Nomadcxx/findedupe/internal/watcher"
	"github.com/spf13/cobra"
)

type scanOptions struct {
	watch       bool
	jsonOutput  bool
	mode        string
	concurrency int
	save        bool
	noHistory   bool
}

func newScanCmd() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan <fingerprints.json>",
		Short: "Group duplicates and preview delete plans",
		Long: `Read library fingerprints from a JSON file, drop excluded entries,
group the rest into duplicates and print one delete plan per group.

Plans are previews; nothing is removed. With --watch the scan is repeated
whenever the config file changes.

Examples:
  findedupe scan library.json
  findedupe scan library.json --json
  findedupe scan library.json --save
  findedupe scan library.json --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rescan when the config file changes")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "print plans as JSON")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "operation mode recorded on plans (default from config)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "parallel exclusion checks (default: GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the plans for 'findedupe plans show'")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record this scan in the activity history")

	return cmd
}

// scanner holds the state one scan pass needs; --watch swaps in new config.
type scanner struct {
	logger     *logging.Logger
	engine     *exclusion.Engine
	classifier *dedupe.Classifier
	grouper    *dedupe.Grouper
	store      *plans.Store
	history    *activity.Logger
	retention  int
	source     string
	mode       media.OperationMode
	enabled    bool
	opts       scanOptions
}

func runScan(cmd *cobra.Command, input string, opts scanOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open fingerprints: %w", err)
	}
	candidates, err := dedupe.LoadCandidates(f)
	f.Close()
	if err != nil {
		return err
	}

	s := &scanner{
		logger:     logger,
		engine:     exclusion.NewEngine(logger),
		classifier: &dedupe.Classifier{Concurrency: opts.concurrency, Logger: logger},
		grouper:    &dedupe.Grouper{},
		source:     input,
		opts:       opts,
	}
	if opts.save {
		if s.store, err = plans.NewStore(nil, ""); err != nil {
			return err
		}
	}
	if !opts.noHistory {
		dir, err := paths.AppDir()
		if err != nil {
			return err
		}
		if s.history, err = activity.NewLogger(dir); err != nil {
			return err
		}
		defer s.history.Close()
	}
	s.classifier.Engine = s.engine
	if err := s.apply(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if err := s.run(ctx, out, candidates); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	path := cfgFile
	if path == "" {
		if path, err = paths.ConfigPath(); err != nil {
			return err
		}
	}

	w, err := watcher.NewConfigWatcher(path, func(next *config.Config) {
		if err := s.apply(next); err != nil {
			logger.Error("cli", "Ignoring reloaded config", err)
			return
		}
		if err := s.run(ctx, out, candidates); err != nil {
			logger.Error("cli", "Rescan failed", err)
		}
	}, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nWatching %s for changes. Press Ctrl+C to stop.\n", filepath.Clean(path))
	return w.Run(ctx)
}

// apply installs cfg's rules, roots, thresholds and mode.
func (s *scanner) apply(cfg *config.Config) error {
	mode, err := cfg.OperationMode()
	if err != nil {
		return err
	}
	if s.opts.mode != "" {
		if mode, err = media.ParseOperationMode(s.opts.mode); err != nil {
			return err
		}
	}

	settings := cfg.Exclusions
	s.engine.UpdateExclusionRules(&settings)
	s.classifier.Settings = &settings
	s.classifier.Roots = append([]string(nil), cfg.Libraries.Roots...)
	s.classifier.PageSize = cfg.ScanPageSize
	s.grouper.Matcher = matching.NewMatcher(cfg.Thresholds())
	s.mode = mode
	s.enabled = cfg.Enabled
	s.retention = cfg.LogRetentionDays
	return nil
}

func (s *scanner) run(ctx context.Context, out io.Writer, candidates []dedupe.Candidate) error {
	if !s.enabled {
		fmt.Fprintln(out, "Duplicate detection is disabled in the config.")
		return nil
	}

	kept, excluded, err := s.classifier.Filter(ctx, candidates)
	if err != nil {
		return err
	}
	groups := s.grouper.Group(kept)
	deletePlans := dedupe.PlanDeletes(groups, s.mode)

	s.logger.Info("cli", "Scan complete",
		logging.F("candidates", len(candidates)),
		logging.F("groups", len(groups)),
		logging.F("plans", len(deletePlans)))

	s.record(excluded, groups, deletePlans)

	if s.store != nil {
		if err := s.store.Save(plans.NewReport("scan "+s.source, s.mode, deletePlans)); err != nil {
			return err
		}
		s.logger.Info("cli", "Saved plans", logging.F("path", s.store.Path()))
	}

	if s.opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(deletePlans)
	}

	printExclusions(out, excluded)
	printGroups(out, groups)
	printPlans(out, groups, deletePlans)
	if s.store != nil {
		fmt.Fprintf(out, "Plans saved to %s\n", s.store.Path())
	}
	return nil
}

// record appends the pass to the activity history. Failures are logged and
// never fail the scan.
func (s *scanner) record(excluded []dedupe.Exclusion, groups []media.DuplicateGroup, deletePlans []media.DeletePlan) {
	if s.history == nil {
		return
	}

	entries := make([]activity.Entry, 0, len(excluded)+len(deletePlans)+1)
	for _, e := range excluded {
		entry := activity.Entry{
			Action:    activity.ActionExcluded,
			LibraryID: e.Candidate.LibraryID,
			Reason:    e.Decision.Reason.String(),
			Rule:      e.Decision.Rule,
		}
		if fp := e.Candidate.Fingerprint; fp != nil {
			entry.Path = fp.Path
			entry.Kind = fp.Key.Kind.String()
			entry.Title = fp.TitleRaw
		}
		entries = append(entries, entry)
	}

	byKey := make(map[media.Key]*media.Fingerprint)
	groupKeys := make(map[media.Key]string)
	for _, g := range groups {
		for _, fp := range g.Candidates {
			byKey[fp.Key] = fp
		}
		if g.SuggestedKeeper != nil {
			groupKeys[*g.SuggestedKeeper] = g.GroupKey
		}
	}
	for _, p := range deletePlans {
		entry := activity.Entry{
			Action:   activity.ActionPlanned,
			Kind:     p.Kind.String(),
			GroupKey: groupKeys[p.Keeper],
			Items:    p.ItemCount(),
			Bytes:    p.TotalBytes,
			Mode:     p.Mode.String(),
		}
		if fp := byKey[p.Keeper]; fp != nil {
			entry.Keeper = fp.Path
			entry.Title = fp.TitleRaw
		}
		entries = append(entries, entry)
	}
	entries = append(entries, activity.Entry{
		Action: activity.ActionScan,
		Path:   s.source,
		Items:  len(groups),
		Mode:   s.mode.String(),
	})

	for _, entry := range entries {
		if err := s.history.Log(entry); err != nil {
			s.logger.Error("cli", "Failed to record activity", err)
			return
		}
	}

	removed, err := s.history.PruneOld(s.retention)
	if err != nil {
		s.logger.Error("cli", "Failed to prune activity history", err)
		return
	}
	if removed > 0 {
		s.logger.Debug("cli", "Pruned activity history", logging.F("files", removed))
	}
}

func printExclusions(out io.Writer, excluded []dedupe.Exclusion) {
	if len(excluded) == 0 {
		return
	}
	counts := make(map[string]int)
	for _, e := range excluded {
		counts[e.Decision.Reason.String()]++
	}
	reasons := make([]string, 0, len(counts))
	for r := range counts {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)

	rows := make([][]string, 0, len(reasons))
	for _, r := range reasons {
		rows = append(rows, []string{r, strconv.Itoa(counts[r])})
	}
	fmt.Fprintln(out, "Excluded entries")
	fmt.Fprintln(out, renderTable([]string{"Reason", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
}

func printGroups(out io.Writer, groups []media.DuplicateGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(out, "No duplicates found.")
		return
	}

	rows := make([][]string, 0)
	for _, g := range groups {
		for _, fp := range g.Candidates {
			marker := ""
			if g.SuggestedKeeper != nil && fp.Key == *g.SuggestedKeeper {
				marker = "keep"
			}
			rows = append(rows, []string{
				g.GroupKey,
				fp.TitleRaw,
				fp.Path,
				quality.Parse(fp.Path).String(),
				formatBytes(fp.Size()),
				marker,
			})
		}
	}
	fmt.Fprintf(out, "Duplicate groups: %d\n", len(groups))
	fmt.Fprintln(out, renderTable(
		[]string{"Group", "Title", "Path", "Quality", "Size", ""},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))
}

func printPlans(out io.Writer, groups []media.DuplicateGroup, deletePlans []media.DeletePlan) {
	if len(deletePlans) == 0 {
		return
	}

	keeperPaths := make(map[media.Key]string)
	for _, g := range groups {
		for _, fp := range g.Candidates {
			keeperPaths[fp.Key] = fp.Path
		}
	}

	var total int64
	rows := make([][]string, 0, len(deletePlans))
	for _, p := range deletePlans {
		total += p.TotalBytes
		rows = append(rows, []string{
			p.PlanID.String()[:8],
			p.Kind.String(),
			keeperPaths[p.Keeper],
			strconv.Itoa(p.ItemCount()),
			formatBytes(p.TotalBytes),
			strconv.Itoa(len(p.FoldersToRemovePreview)),
			p.Mode.String(),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Plan", "Kind", "Keep", "Delete", "Reclaim", "Folders", "Mode"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}))
	fmt.Fprintf(out, "Total reclaimable: %s\n", formatBytes(total))
}
