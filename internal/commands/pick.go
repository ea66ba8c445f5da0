package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/lunchpick/internal/app"
	"github.com/dotcommander/lunchpick/internal/lunch"
	"github.com/dotcommander/lunchpick/internal/models"
	"github.com/dotcommander/lunchpick/internal/output"
)

var errNoOptions = errors.New("add some lunch options first")

func newPickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a lunch option at random",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			noDelay, _ := cmd.Flags().GetBool("no-delay")
			markEaten, _ := cmd.Flags().GetBool("eat")

			delay := app.EffectiveSettings().RevealDelay
			if noDelay {
				delay = 0
			}

			var chosen models.LunchOption
			if err := withStore(cmd, func(ctx context.Context, s *lunch.Store) error {
				if len(s.All(ctx)) == 0 {
					return errNoOptions
				}
				if err := waitReveal(ctx, delay); err != nil {
					return err
				}

				c := s.ChooseRandom(ctx)
				if c == nil {
					return errNoOptions
				}
				chosen = *c

				if markEaten {
					opts, err := s.MarkAsEaten(ctx, chosen.ID)
					if err != nil {
						return err
					}
					for _, o := range opts {
						if o.ID == chosen.ID {
							chosen = o
						}
					}
				}
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Option models.LunchOption `json:"option"`
				Eaten  bool               `json:"marked_eaten"`
			}
			return output.PrintSuccess(cmd.OutOrStdout(), resp{Option: chosen, Eaten: markEaten})
		},
	}

	cmd.Flags().Bool("no-delay", false, "Reveal the pick immediately")
	cmd.Flags().Bool("eat", false, "Also mark the picked option as eaten")

	return cmd
}

// waitReveal pauses before the result is shown. Cancelling ctx aborts the pick.
func waitReveal(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
