package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/lunchpick/internal/app"
	"github.com/dotcommander/lunchpick/internal/lunch"
	"github.com/dotcommander/lunchpick/internal/output"
	"github.com/dotcommander/lunchpick/internal/store"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and database connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)

			dbPath, dbSource, err := app.ResolveDBPathDetailed()
			if err != nil {
				return cmdErr(cmd, err)
			}

			type resp struct {
				DBPath        string   `json:"db_path"`
				DBSource      string   `json:"db_source"`
				DBOK          bool     `json:"db_ok"`
				DBErr         string   `json:"db_error,omitempty"`
				SchemaVersion int64    `json:"schema_version,omitempty"`
				LatestVersion int64    `json:"latest_version,omitempty"`
				Keys          []string `json:"keys,omitempty"`
				OptionCount   int      `json:"option_count"`
				ShareBaseURL  string   `json:"share_base_url"`
				Hint          string   `json:"hint,omitempty"`
			}
			r := resp{
				DBPath:       dbPath,
				DBSource:     dbSource,
				ShareBaseURL: app.EffectiveSettings().ShareBaseURL,
			}

			backend, closeBackend, err := openBackend()
			if err != nil {
				r.DBErr = err.Error()
				r.Hint = "If this is running in a sandboxed environment, set db_path to a writable location or use --db-path."
				return output.PrintSuccess(cmd.OutOrStdout(), r)
			}
			defer closeBackend()
			r.DBOK = true

			if kv, ok := backend.(*store.KV); ok {
				if r.SchemaVersion, r.LatestVersion, err = kv.SchemaVersion(); err != nil {
					r.DBErr = err.Error()
				}
			} else {
				r.Hint = "in-memory store: nothing is kept after this command exits"
			}

			if keys, err := backend.Keys(ctx); err != nil {
				r.DBErr = err.Error()
			} else {
				r.Keys = keys
			}
			r.OptionCount = len(lunch.NewStore(backend).All(ctx))

			return output.PrintSuccess(cmd.OutOrStdout(), r)
		},
	}
}
