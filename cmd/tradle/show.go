package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"Tradle/internal/model"
	"Tradle/internal/store"
)

func newShowCommand() *cobra.Command {
	var (
		day  int
		date string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a stored challenge",
		Long: `Show a stored challenge by day number or date (default today).

Examples:
  tradle show
  tradle show --day 12
  tradle show --date 2025-06-15`,
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
			fmt.Fprintln(cmd.OutOrStdout(), renderChallenge(ch))
			return nil
		},
	}
	cmd.Flags().IntVar(&day, "day", 0, "challenge day number")
	cmd.Flags().StringVar(&date, "date", "", "challenge date YYYY-MM-DD")
	return cmd
}

func lookupChallenge(cmd *cobra.Command, a *app, day int, date string) (*model.Challenge, error) {
	ctx := cmd.Context()
	if day > 0 {
		ch, err := a.store.GetByDay(ctx, day)
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.Errorf("no challenge for day %d", day)
		}
		return ch, err
	}
	d, err := a.parseDate(date)
	if err != nil {
		return nil, err
	}
	ch, err := a.store.GetByDate(ctx, d)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.Errorf("no challenge for %s", model.DateKey(d))
	}
	return ch, err
}
