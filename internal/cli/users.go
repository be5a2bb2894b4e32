package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/target/mmk-backoffice/internal/domain/model"
	"github.com/target/mmk-backoffice/internal/util"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Browse and manage platform users",
	}
	cmd.AddCommand(newUserListCommand(rootOpts))
	cmd.AddCommand(newUserGetCommand(rootOpts))
	cmd.AddCommand(newUserActiveCommand(rootOpts, true))
	cmd.AddCommand(newUserActiveCommand(rootOpts, false))
	cmd.AddCommand(newUserImpersonateCommand(rootOpts))
	return cmd
}

func newUserListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		page   int
		search string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: rootOpts.runE(func(cmd *cobra.Command, _ []string, env *Env) error {
			res, err := env.Services.Users.List(cmd.Context(), page, strings.TrimSpace(search))
			if err != nil {
				return err
			}
			p := rootOpts.Printer()
			return p.Result(pageResult(res), func() error {
				if len(res.Items) == 0 {
					return p.Note("No users found.")
				}
				rows := make([][]string, 0, len(res.Items))
				for _, u := range res.Items {
					rows = append(rows, []string{u.ID, u.FullName(), u.Email, yesNo(u.Verified()), yesNo(u.Active()), util.FormatDate(u.CreatedAt)})
				}
				if err := p.Table([]string{"ID", "Name", "Email", "Verified", "Active", "Joined"}, rows); err != nil {
					return err
				}
				return pageFooter(p, res.Pagination)
			})
		}),
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&search, "search", "", "filter by name or email")
	return guarded(cmd, guardAuthenticated)
}

func newUserGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a user with their memberships",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.runE(func(cmd *cobra.Command, args []string, env *Env) error {
			u, err := env.Services.Users.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := rootOpts.Printer()
			return p.Result(u, func() error { return printUser(p, u) })
		}),
	}
	return guarded(cmd, guardAuthenticated)
}

func printUser(p *Printer, u model.UserDetail) error {
	title := u.FullName()
	if title == "" {
		title = u.Email
	}
	if err := p.Fields(title, [][2]string{
		{"ID", u.ID},
		{"Email", u.Email},
		{"Phone", u.Phone},
		{"Verified", yesNo(u.Verified())},
		{"Active", yesNo(u.Active())},
		{"Joined", util.FormatDateTime(u.CreatedAt)},
	}); err != nil {
		return err
	}
	if len(u.Memberships) == 0 {
		return p.Note("No memberships.")
	}
	rows := make([][]string, 0, len(u.Memberships))
	for _, m := range u.Memberships {
		rows = append(rows, []string{m.OrganizationName, m.OrganizationSlug, m.Role.Label(), util.FormatDate(m.CreatedAt)})
	}
	return p.Table([]string{"Organization", "Slug", "Role", "Since"}, rows)
}

func newUserActiveCommand(rootOpts *RootOptions, active bool) *cobra.Command {
	use, short, done := "deactivate <id>", "Deactivate a user", "deactivated"
	if active {
		use, short, done = "activate <id>", "Reactivate a user", "activated"
	}
	var reason string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.runE(func(cmd *cobra.Command, args []string, env *Env) error {
			if err := env.Services.Users.SetActive(cmd.Context(), args[0], active, reason); err != nil {
				return err
			}
			return writef(env.Out, "User %s %s.\n", args[0], done)
		}),
	}
	cmd.Flags().StringVar(&reason, "reason", "", "reason sent with the change")
	return guarded(cmd, guardAuthenticated)
}

func newUserImpersonateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impersonate <id>",
		Short: "Issue a short-lived session acting as the user",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.runE(func(cmd *cobra.Command, args []string, env *Env) error {
			imp, err := env.Services.Users.Impersonate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			env.Logger.InfoContext(cmd.Context(), "impersonation issued", "user_id", args[0])
			p := rootOpts.Printer()
			return p.Result(imp, func() error {
				fields := [][2]string{{"Token", imp.Token}}
				if imp.URL != "" {
					fields = append(fields, [2]string{"URL", imp.URL})
				}
				fields = append(fields, [2]string{"Expires", util.FormatDateTime(imp.ExpiresAt)})
				return p.Fields("Impersonation", fields)
			})
		}),
	}
	return guarded(cmd, guardAuthenticated)
}
