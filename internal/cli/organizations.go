package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/target/mmk-backoffice/internal/domain/model"
	"github.com/target/mmk-backoffice/internal/service"
	"github.com/target/mmk-backoffice/internal/util"
)

// NewOrganizationsCommand creates the organizations command group.
func NewOrganizationsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "organizations",
		Aliases: []string{"orgs"},
		Short:   "Browse and manage organizations",
	}
	cmd.AddCommand(newOrgListCommand(rootOpts))
	cmd.AddCommand(newOrgGetCommand(rootOpts))
	cmd.AddCommand(newOrgStatusCommand(rootOpts))
	cmd.AddCommand(newOrgUpdateCommand(rootOpts))
	cmd.AddCommand(newOrgDeleteCommand(rootOpts))
	return cmd
}

func newOrgListCommand(rootOpts *RootOptions) *cobra.Command {
	var filter service.OrganizationFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		Args:  cobra.NoArgs,
		RunE: rootOpts.runE(func(cmd *cobra.Command, _ []string, env *Env) error {
			page, err := env.Services.Organizations.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			p := rootOpts.Printer()
			return p.Result(pageResult(page), func() error {
				if len(page.Items) == 0 {
					return p.Note("No organizations found.")
				}
				rows := make([][]string, 0, len(page.Items))
				for _, o := range page.Items {
					owner := ""
					if o.Owner != nil {
						owner = o.Owner.Email
					}
					rows = append(rows, []string{o.ID, o.Name, o.Slug, o.Status.Label(), owner, itoa(o.MembersCount), util.FormatDate(o.CreatedAt)})
				}
				if err := p.Table([]string{"ID", "Name", "Slug", "Status", "Owner", "Members", "Created"}, rows); err != nil {
					return err
				}
				return pageFooter(p, page.Pagination)
			})
		}),
	}
	cmd.Flags().IntVar(&filter.Page, "page", 1, "page number")
	cmd.Flags().StringVar(&filter.Search, "search", "", "filter by name or slug")
	cmd.Flags().StringVar(&filter.Status, "status", "", "filter by status (active|suspended|banned)")
	return guarded(cmd, guardAuthenticated)
}

func newOrgGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an organization with its members and status history",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.runE(func(cmd *cobra.Command, args []string, env *Env) error {
			org, err := env.Services.Organizations.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := rootOpts.Printer()
			return p.Result(org, func() error { return printOrganization(p, org) })
		}),
	}
	return guarded(cmd, guardAuthenticated)
}

func printOrganization(p *Printer, org model.OrganizationDetail) error {
	booking := "—"
	if org.BookingEnabled != nil {
		booking = yesNo(*org.BookingEnabled)
	}
	fields := [][2]string{
		{"ID", org.ID},
		{"Slug", org.Slug},
		{"Status", org.Status.Label()},
		{"Tagline", org.Tagline},
		{"Booking", booking},
		{"Created", util.FormatDateTime(org.CreatedAt)},
		{"Members", itoa(org.Stats.MemberCount)},
		{"Services", itoa(org.Stats.ServiceCount)},
		{"Customers", itoa(org.Stats.CustomerCount)},
		{"Appointments", fmt.Sprintf("%d (%d completed)", org.Stats.TotalAppointments, org.Stats.CompletedAppointments)},
	}
	if org.Owner != nil {
		fields = append(fields, [2]string{"Owner", fmt.Sprintf("%s <%s>", org.Owner.FullName(), org.Owner.Email)})
	}
	if err := p.Fields(org.Name, fields); err != nil {
		return err
	}

	if len(org.Members) > 0 {
		rows := make([][]string, 0, len(org.Members))
		for _, m := range org.Members {
			rows = append(rows, []string{m.Name, m.Email, m.Role.Label(), yesNo(m.Active())})
		}
		if err := p.Table([]string{"Member", "Email", "Role", "Active"}, rows); err != nil {
			return err
		}
	}

	if len(org.StatusHistory) > 0 {
		rows := make([][]string, 0, len(org.StatusHistory))
		for _, h := range org.StatusHistory {
			rows = append(rows, []string{util.FormatDateTime(h.CreatedAt), model.OrganizationStatus(h.Status).Label(), h.Reason, h.ChangedBy})
		}
		if err := p.Table([]string{"When", "Status", "Reason", "By"}, rows); err != nil {
			return err
		}
	}
	return nil
}

func newOrgStatusCommand(rootOpts *RootOptions) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "set-status <id> <active|suspended|banned>",
		Short: "Change an organization's status",
		Args:  cobra.ExactArgs(2),
		RunE: rootOpts.runE(func(cmd *cobra.Command, args []string, env *Env) error {
			ctx := cmd.Context()
			org, err := env.Services.Organizations.Get(ctx, args[0])
			if err != nil {
				return err
			}
			changed, err := env.Services.Organizations.ChangeStatus(ctx, service.ChangeStatusInput{
				ID:      args[0],
				Current: org.Status,
				Status:  strings.TrimSpace(args[1]),
				Reason:  reason,
			})
			if err != nil {
				return err
			}
			if !changed {
				return writef(env.Out, "%s is already %s.\n", org.Name, org.Status.Label())
			}
			return writef(env.Out, "%s status changed to %s.\n", org.Name, strings.ToLower(strings.TrimSpace(args[1])))
		}),
	}
	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded in the status history")
	return guarded(cmd, guardAuthenticated)
}

func newOrgUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name    string
		tagline string
		booking bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an organization's profile",
		Long:  "Edit an organization's profile. Flags that are not given keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.runE(func(cmd *cobra.Command, args []string, env *Env) error {
			ctx := cmd.Context()
			org, err := env.Services.Organizations.Get(ctx, args[0])
			if err != nil {
				return err
			}
			req := model.UpdateOrganizationRequest{
				Name:           org.Name,
				Tagline:        org.Tagline,
				BookingEnabled: org.BookingEnabled != nil && *org.BookingEnabled,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = name
			}
			if flags.Changed("tagline") {
				req.Tagline = tagline
			}
			if flags.Changed("booking") {
				req.BookingEnabled = booking
			}
			if err := env.Services.Organizations.Update(ctx, args[0], req); err != nil {
				return err
			}
			return writef(env.Out, "%s updated.\n", req.Name)
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&tagline, "tagline", "", "short tagline")
	cmd.Flags().BoolVar(&booking, "booking", false, "enable online booking")
	return guarded(cmd, guardAuthenticated)
}

func newOrgDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an organization",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.runE(func(cmd *cobra.Command, args []string, env *Env) error {
			prompt := fmt.Sprintf("About to permanently delete organization %q.", args[0])
			if err := confirmAction(env.In, env.Err, rootOpts.Yes, prompt); err != nil {
				return err
			}
			if err := env.Services.Organizations.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return writef(env.Out, "Organization %s deleted.\n", args[0])
		}),
	}
	return guarded(cmd, guardAuthenticated)
}
