package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBotsCommand() *cobra.Command {
	var (
		day   int
		date  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "bots",
		Short: "Show the bot leaderboard of a challenge",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ch, err := lookupChallenge(cmd, a, day, date)
			if err != nil {
				return err
			}
			entries, err := a.store.BotsForDay(cmd.Context(), ch.Day)
			if err != nil {
				return err
			}
			if limit > 0 && limit < len(entries) {
				entries = entries[:limit]
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderLeaderboard(ch.Day, ch.Params.TargetValue, entries))
			return nil
		},
	}
	cmd.Flags().IntVar(&day, "day", 0, "challenge day number")
	cmd.Flags().StringVar(&date, "date", "", "challenge date YYYY-MM-DD")
	cmd.Flags().IntVar(&limit, "limit", 20, "rows to show, 0 for all")
	return cmd
}
