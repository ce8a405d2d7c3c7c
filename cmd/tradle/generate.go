package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"Tradle/internal/bots"
)

func newGenerateCommand() *cobra.Command {
	var (
		date     string
		withBots bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate (or load) the challenge for a date",
		Long: `Generate the challenge for a date and store it. If the date already has
a challenge it is printed instead. Exits non-zero when no candidate produced
a playable challenge.

Examples:
  tradle generate
  tradle generate --date 2025-06-15 --bots=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.parseDate(date)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Generation.Timeout)
			defer cancel()

			res, err := a.assembler.Assemble(ctx, d)
			if err != nil {
				return err
			}

			if withBots {
				stats, seeded, err := bots.Ensure(ctx, a.store, res.Challenge, a.cfg.Generation.BotsPerDay)
				if err != nil {
					return err
				}
				if seeded {
					fmt.Fprintf(cmd.OutOrStdout(), "seeded %d bots (%d at or above target)\n", stats.Count, stats.Winners)
				}
			}

			if res.Created {
				fmt.Fprintf(cmd.OutOrStdout(), "generated day %d after %d candidate(s) from %s\n",
					res.Challenge.Day, res.Candidates, res.Source)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "day %d already exists\n", res.Challenge.Day)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderChallenge(res.Challenge))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "challenge date YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&withBots, "bots", true, "seed the bot leaderboard")
	return cmd
}
