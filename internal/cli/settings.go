package cli

import (
	"github.com/spf13/cobra"

	"github.com/target/mmk-backoffice/internal/domain/model"
)

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change platform settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List platform settings",
		Args:  cobra.NoArgs,
		RunE: rootOpts.runE(func(cmd *cobra.Command, _ []string, env *Env) error {
			settings, err := env.Services.Settings.List(cmd.Context())
			if err != nil {
				return err
			}
			return printSettings(rootOpts.Printer(), settings)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a platform setting",
		Args:  cobra.ExactArgs(2),
		RunE: rootOpts.runE(func(cmd *cobra.Command, args []string, env *Env) error {
			ctx := cmd.Context()
			current, err := env.Services.Settings.List(ctx)
			if err != nil {
				return err
			}
			updated, err := env.Services.Settings.Update(ctx, current, args[0], args[1])
			if err != nil {
				return err
			}
			p := rootOpts.Printer()
			if p.JSONMode() {
				return printSettings(p, updated)
			}
			return p.Message("%s = %s", args[0], args[1])
		}),
	})
	for _, sub := range cmd.Commands() {
		guarded(sub, guardElevated)
	}
	return cmd
}

func printSettings(p *Printer, settings []model.Setting) error {
	if settings == nil {
		settings = []model.Setting{}
	}
	return p.Result(settings, func() error {
		if len(settings) == 0 {
			return p.Note("No settings.")
		}
		rows := make([][]string, 0, len(settings))
		for _, s := range settings {
			rows = append(rows, []string{s.Key, s.Value, s.Description})
		}
		return p.Table([]string{"Key", "Value", "Description"}, rows)
	})
}
