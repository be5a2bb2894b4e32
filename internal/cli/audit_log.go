package cli

import (
	"github.com/spf13/cobra"
)

// NewAuditLogCommand creates the audit-log command.
func NewAuditLogCommand(rootOpts *RootOptions) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "audit-log",
		Short: "Show administrator actions, newest first",
		Args:  cobra.NoArgs,
		RunE: rootOpts.runE(func(cmd *cobra.Command, _ []string, env *Env) error {
			res, err := env.Services.AuditLog.List(cmd.Context(), page)
			if err != nil {
				return err
			}
			p := rootOpts.Printer()
			return p.Result(pageResult(res), func() error {
				if len(res.Items) == 0 {
					return p.Note("No audit entries.")
				}
				if err := auditTable(p, res.Items); err != nil {
					return err
				}
				return pageFooter(p, res.Pagination)
			})
		}),
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return guarded(cmd, guardAuthenticated)
}
