package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cinematch/internal/api"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Load the datasets and build the recommendation model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.newServer(false)
			if err != nil {
				return err
			}
			defer srv.Close()

			summary, err := srv.Rebuild(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, summary)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderBuildSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output build statistics as JSON")
	return cmd
}

func renderBuildSummary(s api.BuildSummary) string {
	rows := [][]string{
		{"Rating rows", strconv.Itoa(s.RatingRows)},
		{"Tag rows", strconv.Itoa(s.TagRows)},
		{"Movie rows", strconv.Itoa(s.MovieRows)},
		{"Tagged rating rows", strconv.Itoa(s.TaggedRows)},
		{"Rating groups", strconv.Itoa(s.RatingGroups)},
		{"Qualifying movies", strconv.Itoa(s.QualifiedMovies)},
		{"Profiles", strconv.Itoa(s.Profiles)},
		{"Vocabulary", strconv.Itoa(s.Vocabulary)},
		{"Empty profiles", strconv.Itoa(s.EmptyProfiles)},
		{"Min avg rating", strconv.FormatFloat(s.MinAvgRating, 'f', -1, 64)},
		{"Duration", (time.Duration(s.DurationMillis) * time.Millisecond).String()},
	}
	out := fmt.Sprintf("Built model %s\n", s.ID)
	out += renderTable([]string{"Stat", "Value"}, rows, []columnAlignment{alignLeft, alignRight}) + "\n"
	if s.EmptyProfiles > 0 {
		out += fmt.Sprintf("Warning: %d profile(s) have no tokens and score 0 against every movie\n", s.EmptyProfiles)
	}
	return out
}
