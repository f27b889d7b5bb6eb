package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cinematch/internal/api"
)

const defaultHistoryLimit = 20

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded builds and queries",
	}
	historyCmd.AddCommand(newHistoryBuildsCommand(ctx))
	historyCmd.AddCommand(newHistoryQueriesCommand(ctx))
	return historyCmd
}

func newHistoryBuildsCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "builds",
		Short: "List recent model builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			builds, err := store.ListBuilds(cmd.Context(), limit)
			if err != nil {
				return err
			}
			summaries := make([]api.BuildSummary, len(builds))
			for i, b := range builds {
				summaries[i] = api.FromHistoryBuild(b)
			}
			if jsonOutput {
				return writeJSON(cmd, summaries)
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No builds recorded")
				return nil
			}
			rows := make([][]string, len(summaries))
			for i, s := range summaries {
				rows[i] = []string{
					shortID(s.ID),
					s.StartedAt,
					strconv.Itoa(s.Profiles),
					strconv.Itoa(s.Vocabulary),
					strconv.Itoa(s.EmptyProfiles),
					(time.Duration(s.DurationMillis) * time.Millisecond).String(),
				}
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Started", "Profiles", "Vocabulary", "Empty", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", defaultHistoryLimit, "Maximum builds to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output builds as JSON")
	return cmd
}

func newHistoryQueriesCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		buildID    string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "queries",
		Short: "List recent recommendation queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			queries, err := store.ListQueries(cmd.Context(), strings.TrimSpace(buildID), limit)
			if err != nil {
				return err
			}
			summaries := make([]api.QuerySummary, len(queries))
			for i, q := range queries {
				summaries[i] = api.FromHistoryQuery(q)
			}
			if jsonOutput {
				return writeJSON(cmd, summaries)
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No queries recorded")
				return nil
			}
			rows := make([][]string, len(summaries))
			for i, q := range summaries {
				rows[i] = []string{
					q.CreatedAt,
					shortID(q.BuildID),
					q.Title,
					strconv.Itoa(q.TopN),
					yesNo(q.Found),
					strings.Join(q.Results, ", "),
				}
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Build", "Title", "Top N", "Found", "Results"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", defaultHistoryLimit, "Maximum queries to list (0 for all)")
	cmd.Flags().StringVar(&buildID, "build", "", "Only show queries answered by this build ID")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output queries as JSON")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
