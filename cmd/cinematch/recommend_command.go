package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cinematch/internal/api"
)

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var (
		topN       int
		jsonOutput bool
		withScores bool
	)

	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "Recommend movies similar to an exact title",
		Long: "Build the model from the configured datasets and print the movies whose tag " +
			"profiles are most similar to the given title. The title must match exactly.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("top") && topN <= 0 {
				return fmt.Errorf("--top must be positive, got %d", topN)
			}
			title := strings.Join(args, " ")

			srv, err := ctx.newServer(false)
			if err != nil {
				return err
			}
			defer srv.Close()

			if _, err := srv.Rebuild(cmd.Context()); err != nil {
				return err
			}
			resp, err := srv.Recommend(cmd.Context(), title, topN, withScores)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderRecommendations(resp, withScores))
			return nil
		},
	}

	cmd.Flags().IntVarP(&topN, "top", "n", 0, "Number of recommendations (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output recommendations as JSON")
	cmd.Flags().BoolVar(&withScores, "scores", false, "Include similarity scores")
	return cmd
}

func renderRecommendations(resp api.RecommendationsResponse, withScores bool) string {
	if len(resp.Recommendations) == 0 {
		return fmt.Sprintf("No other movies to compare with %q\n", resp.Query)
	}
	if !withScores {
		var b strings.Builder
		for i, rec := range resp.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec.Title)
		}
		return b.String()
	}
	rows := make([][]string, len(resp.Recommendations))
	for i, rec := range resp.Recommendations {
		score := ""
		if rec.Score != nil {
			score = strconv.FormatFloat(*rec.Score, 'f', 4, 64)
		}
		rows[i] = []string{strconv.Itoa(i + 1), rec.Title, rec.Genres, score}
	}
	return renderTable(
		[]string{"#", "Title", "Genres", "Score"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	) + "\n"
}
