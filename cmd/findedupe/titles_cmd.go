package main

import (
	"fmt"
	"strconv"

	"github.com/Nomadcxx/findedupe/internal/matching"
	"github.com/Nomadcxx/findedupe/internal/media"
	"github.com/Nomadcxx/findedupe/internal/naming"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <title>...",
		Short: "Show the canonical form of titles",
		Long: `Normalize titles the way duplicate detection compares them: bracketed
content and edition/quality tags removed, punctuation folded and trailing
sequel numbers rewritten to digits.

Examples:
  findedupe normalize "The Matrix (1999) [1080p]"
  findedupe normalize "Rocky IV" "Toy Story Part Three"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			for _, title := range args {
				r := naming.Normalize(title)
				rows = append(rows, []string{title, r.NormalizedTitle, yesNo(r.HadEditionTag), yesNo(r.HadBracketedContent)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Title", "Normalized", "Edition Tag", "Bracketed"}, rows, nil))
			return nil
		},
	}
}

func newSimilarityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "similarity <title-a> <title-b>",
		Short: "Score how similar two titles are",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b := args[0], args[1]
			rows := [][]string{
				{"token set", strconv.Itoa(matching.TokenSetRatio(a, b))},
				{"token sort", strconv.Itoa(matching.TokenSortRatio(a, b))},
				{"levenshtein", strconv.Itoa(matching.LevenshteinRatio(a, b))},
				{"similarity", strconv.Itoa(matching.CalculateSimilarity(a, b))},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Scorer", "Score"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newMatchCmd() *cobra.Command {
	var (
		yearA, yearB int
		idsA, idsB   map[string]string
		raw          bool
	)

	cmd := &cobra.Command{
		Use:   "match <title-a> <title-b>",
		Short: "Decide whether two titles name the same item",
		Long: `Apply the matching policy to two titles. Titles are normalized first
unless --raw is given. Thresholds come from the config file.

Examples:
  findedupe match "Dune (2021)" "Dune Part One" --year-a 2021 --year-b 2021
  findedupe match "Alien" "Alien Directors Cut" --id-a tmdb=348 --id-b tmdb=348`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, b := args[0], args[1]
			if !raw {
				a = naming.Normalize(a).NormalizedTitle
				b = naming.Normalize(b).NormalizedTitle
			}

			var ya, yb *int
			if cmd.Flags().Changed("year-a") {
				ya = &yearA
			}
			if cmd.Flags().Changed("year-b") {
				yb = &yearB
			}

			verdict := cfg.Thresholds().Evaluate(a, b, ya, yb, media.NewProviderIDs(idsA), media.NewProviderIDs(idsB))

			score := "-"
			if verdict.Score >= 0 {
				score = strconv.Itoa(verdict.Score)
			}
			rows := [][]string{
				{"title a", a},
				{"title b", b},
				{"same", yesNo(verdict.Same)},
				{"reason", verdict.Reason.String()},
				{"score", score},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().IntVar(&yearA, "year-a", 0, "release year of the first title")
	cmd.Flags().IntVar(&yearB, "year-b", 0, "release year of the second title")
	cmd.Flags().StringToStringVar(&idsA, "id-a", nil, "provider IDs of the first title (tmdb=123)")
	cmd.Flags().StringToStringVar(&idsB, "id-b", nil, "provider IDs of the second title (imdb=tt123)")
	cmd.Flags().BoolVar(&raw, "raw", false, "compare titles as given, without normalizing")

	return cmd
}
