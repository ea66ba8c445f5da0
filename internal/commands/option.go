package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/lunchpick/internal/lunch"
	"github.com/dotcommander/lunchpick/internal/models"
	"github.com/dotcommander/lunchpick/internal/output"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a lunch option",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			kind, _ := cmd.Flags().GetString("type")
			distance, _ := cmd.Flags().GetFloat64("distance")
			favorite, _ := cmd.Flags().GetBool("favorite")

			in := models.OptionInput{
				Name:       name,
				Type:       kind,
				Distance:   models.Distance(distance),
				IsFavorite: favorite,
			}
			if err := in.Validate(); err != nil {
				return cmdErr(cmd, err)
			}

			var created models.LunchOption
			var count int
			if err := withStore(cmd, func(ctx context.Context, s *lunch.Store) error {
				opts, err := s.Create(ctx, in)
				if err != nil {
					return err
				}
				created = opts[len(opts)-1]
				count = len(opts)
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Option models.LunchOption `json:"option"`
				Count  int                `json:"count"`
			}
			return output.PrintSuccess(cmd.OutOrStdout(), resp{Option: created, Count: count})
		},
	}

	cmd.Flags().String("name", "", "Option name (required)")
	cmd.Flags().String("type", "", "Category (default \"other\")")
	cmd.Flags().Float64("distance", 0, "Distance in meters")
	cmd.Flags().Bool("favorite", false, "Mark as a favorite")

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all lunch options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []models.LunchOption
			if err := withStore(cmd, func(ctx context.Context, s *lunch.Store) error {
				opts = s.All(ctx)
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Count   int                  `json:"count"`
				Options []models.LunchOption `json:"options"`
			}
			return output.PrintSuccess(cmd.OutOrStdout(), resp{Count: len(opts), Options: opts})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a lunch option",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(cmd, args)
			if err != nil {
				return cmdErr(cmd, err)
			}
			yes, _ := cmd.Flags().GetBool("yes")

			type resp struct {
				ID        string `json:"id"`
				Found     bool   `json:"found"`
				Deleted   bool   `json:"deleted"`
				Remaining int    `json:"remaining"`
			}
			r := resp{ID: id}

			if err := withStore(cmd, func(ctx context.Context, s *lunch.Store) error {
				existing, found := s.Get(ctx, id)
				r.Found = found
				if !found {
					r.Remaining = len(s.All(ctx))
					return nil
				}
				if !yes {
					ok, err := confirm(cmd, fmt.Sprintf("Delete %q?", existing.Name))
					if err != nil {
						return err
					}
					if !ok {
						r.Remaining = len(s.All(ctx))
						return nil
					}
				}
				opts, err := s.Delete(ctx, id)
				if err != nil {
					return err
				}
				r.Deleted = true
				r.Remaining = len(opts)
				return nil
			}); err != nil {
				return err
			}

			return output.PrintSuccess(cmd.OutOrStdout(), r)
		},
	}

	cmd.Flags().String("id", "", "Option ID (required)")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newEatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eat",
		Short: "Mark a lunch option as recently eaten",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(cmd, args)
			if err != nil {
				return cmdErr(cmd, err)
			}

			type resp struct {
				ID     string              `json:"id"`
				Found  bool                `json:"found"`
				Option *models.LunchOption `json:"option,omitempty"`
			}
			r := resp{ID: id}

			if err := withStore(cmd, func(ctx context.Context, s *lunch.Store) error {
				opts, err := s.MarkAsEaten(ctx, id)
				if err != nil {
					return err
				}
				for i := range opts {
					if opts[i].ID == id {
						r.Found = true
						r.Option = &opts[i]
					}
				}
				return nil
			}); err != nil {
				return err
			}

			return output.PrintSuccess(cmd.OutOrStdout(), r)
		},
	}

	cmd.Flags().String("id", "", "Option ID (required)")

	return cmd
}

// resolveID accepts the id as --id or a single positional argument.
func resolveID(cmd *cobra.Command, args []string) (string, error) {
	id, _ := cmd.Flags().GetString("id")
	if id != "" && len(args) == 1 {
		return "", errors.New("provide either --id or a positional option id, not both")
	}
	if id == "" && len(args) == 1 {
		id = args[0]
	}
	if id == "" {
		return "", errors.New("--id is required")
	}
	return id, nil
}
