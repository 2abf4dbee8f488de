package main

import (
	"errors"
	"fmt"

	"github.com/Nomadcxx/findedupe/internal/exclusion"
	"github.com/Nomadcxx/findedupe/internal/logging"
	"github.com/Nomadcxx/findedupe/internal/media"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errInvalidRules = errors.New("exclusion rules contain invalid entries")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check configured exclusion prefixes and glob patterns",
		Long: `Validate the exclusion path prefixes and glob patterns from the config.

Prefixes must resolve under a configured library root. A prefix that does not
exist yet is accepted with a note. Exits non-zero when any entry is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			v := exclusion.NewValidator(nil)
			prefixes := v.ValidatePathPrefixes(cfg.Exclusions.PathPrefixes, cfg.Libraries.Roots)
			globs := exclusion.ValidateGlobPatterns(cfg.Exclusions.GlobPatterns)

			rows := make([][]string, 0, len(prefixes)+len(globs))
			for _, r := range prefixes {
				rows = append(rows, []string{"prefix", r.Value, yesNo(r.IsValid), r.Message})
			}
			for _, r := range globs {
				rows = append(rows, []string{"glob", r.Value, yesNo(r.IsValid), r.Message})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No exclusion prefixes or glob patterns configured.")
				return nil
			}
			fmt.Fprintln(out, renderTable([]string{"Kind", "Value", "Valid", "Message"}, rows, nil))

			if !exclusion.AllValid(prefixes) || !exclusion.AllValid(globs) {
				return errInvalidRules
			}
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	var libraryID string

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Show whether paths would be excluded from duplicate detection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Close()

			engine := exclusion.NewEngine(logger)
			engine.UpdateExclusionRules(&cfg.Exclusions)

			rows := make([][]string, 0, len(args))
			for _, path := range args {
				fp := media.NewFingerprint(media.NewKey(uuid.New(), media.KindMovie), "", nil, nil, path, "", nil)
				d := engine.Decide(fp, libraryID, &cfg.Exclusions, cfg.Libraries.Roots)
				rows = append(rows, []string{path, yesNo(d.Excluded), d.Reason.String(), d.Rule})
			}

			logger.Debug("cli", "Checked paths", logging.F("count", len(args)), logging.F("patterns", engine.PatternCount()))
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Path", "Excluded", "Reason", "Rule"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVarP(&libraryID, "library", "l", "", "library ID the paths belong to")

	return cmd
}
