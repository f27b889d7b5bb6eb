package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProfilesCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the movie profiles that pass the rating filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.newServer(false)
			if err != nil {
				return err
			}
			defer srv.Close()

			if _, err := srv.Rebuild(cmd.Context()); err != nil {
				return err
			}
			resp, err := srv.Profiles(limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if resp.Total == 0 {
				fmt.Fprintln(out, "No movies passed the rating filter")
				return nil
			}
			rows := make([][]string, len(resp.Profiles))
			for i, p := range resp.Profiles {
				rows[i] = []string{strconv.FormatInt(p.MovieID, 10), p.Title, p.Genres, p.Features}
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Movie ID", "Title", "Genres", "Features"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			if len(resp.Profiles) < resp.Total {
				fmt.Fprintf(out, "Showing %d of %d profiles\n", len(resp.Profiles), resp.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum profiles to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output profiles as JSON")
	return cmd
}
