package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	"github.com/target/mmk-backoffice/internal/domain/model"
	"github.com/target/mmk-backoffice/internal/util"
)

// NewAdminsCommand creates the admins command group. Every subcommand needs the Super Admin role.
func NewAdminsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admins",
		Short: "Manage back-office administrators",
	}
	cmd.AddCommand(newAdminListCommand(rootOpts))
	cmd.AddCommand(newAdminCreateCommand(rootOpts))
	cmd.AddCommand(newAdminUpdateCommand(rootOpts))
	cmd.AddCommand(newAdminDeleteCommand(rootOpts))
	return cmd
}

func newAdminListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List administrators",
		Args:  cobra.NoArgs,
		RunE: rootOpts.runE(func(cmd *cobra.Command, _ []string, env *Env) error {
			admins, err := env.Services.Admins.List(cmd.Context())
			if err != nil {
				return err
			}
			if admins == nil {
				admins = []domainauth.Principal{}
			}
			p := rootOpts.Printer()
			return p.Result(admins, func() error {
				if len(admins) == 0 {
					return p.Note("No administrators.")
				}
				self := ""
				if me := env.Services.Sessions.Principal(); me != nil {
					self = me.ID
				}
				rows := make([][]string, 0, len(admins))
				for _, a := range admins {
					name := a.Name
					if a.ID == self {
						name += " (you)"
					}
					rows = append(rows, []string{a.ID, name, a.Email, a.Role.Label(), util.FormatDate(a.CreatedAt)})
				}
				return p.Table([]string{"ID", "Name", "Email", "Role", "Created"}, rows)
			})
		}),
	}
	return guarded(cmd, guardElevated)
}

func newAdminCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		req           model.CreateAdminRequest
		role          string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator",
		Args:  cobra.NoArgs,
		RunE: rootOpts.runE(func(cmd *cobra.Command, _ []string, env *Env) error {
			req.Role = domainauth.Role(role)
			if passwordStdin {
				pw, err := readSecret(env.In)
				if err != nil {
					return err
				}
				req.Password = pw
			}
			created, err := env.Services.Admins.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			p := rootOpts.Printer()
			return p.Result(created, func() error {
				return p.Message("Created %s (%s) with id %s.", displayName(&created), created.Role.Label(), created.ID)
			})
		}),
	}
	flags := cmd.Flags()
	flags.StringVar(&req.Name, "name", "", "display name")
	flags.StringVar(&req.Email, "email", "", "sign-in email")
	flags.StringVar(&req.Password, "password", "", "initial password")
	flags.BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	flags.StringVar(&role, "role", string(domainauth.RoleSupport), "role (super_admin|support)")
	return guarded(cmd, guardElevated)
}

func newAdminUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name, email, role, password string
		passwordStdin               bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an administrator",
		Long:  "Edit an administrator. Flags that are not given keep their current value; the password is only changed when one is given.",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.runE(func(cmd *cobra.Command, args []string, env *Env) error {
			ctx := cmd.Context()
			current, err := findAdmin(cmd, env, args[0])
			if err != nil {
				return err
			}
			req := model.UpdateAdminRequest{Name: current.Name, Email: current.Email, Role: current.Role}
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = name
			}
			if flags.Changed("email") {
				req.Email = email
			}
			if flags.Changed("role") {
				req.Role = domainauth.Role(role)
			}
			req.Password = password
			if passwordStdin {
				if req.Password, err = readSecret(env.In); err != nil {
					return err
				}
			}
			updated, err := env.Services.Admins.Update(ctx, args[0], req)
			if err != nil {
				return err
			}
			p := rootOpts.Printer()
			return p.Result(updated, func() error {
				return p.Message("Updated %s.", displayName(&updated))
			})
		}),
	}
	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "display name")
	flags.StringVar(&email, "email", "", "sign-in email")
	flags.StringVar(&role, "role", "", "role (super_admin|support)")
	flags.StringVar(&password, "password", "", "new password")
	flags.BoolVar(&passwordStdin, "password-stdin", false, "read the new password from stdin")
	return guarded(cmd, guardElevated)
}

func findAdmin(cmd *cobra.Command, env *Env, id string) (domainauth.Principal, error) {
	admins, err := env.Services.Admins.List(cmd.Context())
	if err != nil {
		return domainauth.Principal{}, err
	}
	for _, a := range admins {
		if a.ID == id {
			return a, nil
		}
	}
	return domainauth.Principal{}, NewExitError(ExitFailure, fmt.Sprintf("admin %q not found", id))
}

func newAdminDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an administrator",
		Args:  cobra.ExactArgs(1),
		RunE: rootOpts.runE(func(cmd *cobra.Command, args []string, env *Env) error {
			prompt := fmt.Sprintf("About to delete administrator %q.", args[0])
			if err := confirmAction(env.In, env.Err, rootOpts.Yes, prompt); err != nil {
				return err
			}
			if err := env.Services.Admins.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return writef(env.Out, "Administrator %s deleted.\n", args[0])
		}),
	}
	return guarded(cmd, guardElevated)
}
