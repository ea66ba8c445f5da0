package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/lunchpick/internal/app"
	"github.com/dotcommander/lunchpick/internal/lunch"
	"github.com/dotcommander/lunchpick/internal/output"
	"github.com/dotcommander/lunchpick/internal/share"
)

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print a link that carries your lunch list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, _ := cmd.Flags().GetString("base-url")
			if base == "" {
				base = app.EffectiveSettings().ShareBaseURL
			}

			var count int
			var token, link string
			if err := withStore(cmd, func(ctx context.Context, s *lunch.Store) error {
				opts := s.All(ctx)
				count = len(opts)

				var err error
				token, err = share.Encode(opts)
				if err != nil {
					return err
				}
				link, err = share.Link(base, token)
				return err
			}); err != nil {
				return err
			}

			type resp struct {
				Count int    `json:"count"`
				Link  string `json:"link"`
				Token string `json:"token"`
			}
			return output.PrintSuccess(cmd.OutOrStdout(), resp{Count: count, Link: link, Token: token})
		},
	}

	cmd.Flags().String("base-url", "", "Base URL for the link (default: share_base_url from config)")

	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <link-or-token>",
		Short: "Merge a shared lunch list into yours",
		Long: "Decode a share link (or bare token) and add every option whose name is not already in your list.\n" +
			"Nothing is imported if the link is invalid.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			input := strings.TrimSpace(args[0])

			// Decode fully before touching the store so a bad link imports nothing.
			token, err := share.TokenFromLink(input)
			if err != nil {
				return cmdErr(cmd, err)
			}
			candidates, err := share.Decode(token)
			if err != nil {
				return cmdErr(cmd, err)
			}

			type resp struct {
				Offered   int    `json:"offered"`
				Added     int    `json:"added"`
				Skipped   int    `json:"skipped"`
				Imported  bool   `json:"imported"`
				CleanLink string `json:"clean_link,omitempty"`
			}
			r := resp{Offered: len(candidates)}
			if token != input {
				r.CleanLink = share.StripToken(input)
			}

			if err := withStore(cmd, func(ctx context.Context, s *lunch.Store) error {
				if !yes {
					ok, err := confirm(cmd, fmt.Sprintf("Found a shared lunch list with %d options. Import it?", len(candidates)))
					if err != nil {
						return err
					}
					if !ok {
						return nil
					}
				}
				added, err := s.ImportMerge(ctx, candidates)
				if err != nil {
					return err
				}
				r.Imported = true
				r.Added = added
				r.Skipped = len(candidates) - added
				return nil
			}); err != nil {
				return err
			}

			return output.PrintSuccess(cmd.OutOrStdout(), r)
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
