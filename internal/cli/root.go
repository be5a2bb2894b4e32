// Package cli implements the backoffice-admin terminal client.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/target/mmk-backoffice/internal/adapters/backendapi"
	"github.com/target/mmk-backoffice/internal/domain/access"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string
	Query  string
	Yes    bool

	load Loader
	env  *Env
}

// Env returns the environment loaded for the running command.
func (o *RootOptions) Env() *Env { return o.env }

// Printer returns a printer bound to the command's output flags.
func (o *RootOptions) Printer() *Printer {
	return &Printer{Format: o.Format, Query: o.Query, Out: o.env.Out}
}

// Guard levels a command may declare through its "guard" annotation.
const (
	guardAnnotation = "guard"

	guardNone          = "none"
	guardGuest         = "guest"
	guardAuthenticated = "authenticated"
	guardElevated      = "elevated"
)

var (
	errNotSignedIn     = NewExitError(ExitCommandError, "not signed in; run `backoffice-admin login`")
	errAlreadySignedIn = NewExitError(ExitCommandError, "already signed in; run `backoffice-admin logout` first")
	errNotElevated     = NewExitError(ExitCommandError, "this command requires the Super Admin role")
)

// guarded marks cmd as requiring level.
func guarded(cmd *cobra.Command, level string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[guardAnnotation] = level
	return cmd
}

// checkGuards evaluates the command's guards against the current session.
// Each level maps to the same guards the console routes use.
func checkGuards(level string, state access.State) error {
	var d access.Decision
	switch level {
	case guardGuest:
		if d = access.Evaluate(state, access.RequireGuest); !d.Allow {
			return errAlreadySignedIn
		}
	case guardAuthenticated:
		if d = access.Evaluate(state, access.RequireAuthenticated); !d.Allow {
			return errNotSignedIn
		}
	case guardElevated:
		if d = access.Evaluate(state, access.RequireAuthenticated, access.RequireElevated); !d.Allow {
			if d.Redirect == access.LoginPath {
				return errNotSignedIn
			}
			return errNotElevated
		}
	}
	return nil
}

// NewRootCommand creates the root command. load builds the environment once a
// command that needs it runs; help and completion never load it.
func NewRootCommand(load Loader) *cobra.Command {
	opts := &RootOptions{load: load}
	if opts.load == nil {
		opts.load = DefaultLoader
	}

	cmd := &cobra.Command{
		Use:           "backoffice-admin",
		Short:         "Back-office administration client",
		Long:          "Manage organizations, users, admins and settings through the back-office REST API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			level, ok := cmd.Annotations[guardAnnotation]
			if !ok {
				return nil
			}
			env, err := opts.load(cmd.Context(), Streams{
				In:  cmd.InOrStdin(),
				Out: cmd.OutOrStdout(),
				Err: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			opts.env = env
			if err := checkGuards(level, env.Services.Sessions); err != nil {
				return errors.Join(err, opts.closeEnv())
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "o", FormatTable, "output format (table|json)")
	cmd.PersistentFlags().StringVarP(&opts.Query, "query", "q", "", "JMESPath query applied to JSON output")
	cmd.PersistentFlags().BoolVarP(&opts.Yes, "yes", "y", false, "skip confirmation prompts")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewOrganizationsCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))
	cmd.AddCommand(NewAdminsCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))
	cmd.AddCommand(NewAuditLogCommand(opts))

	return cmd
}

// runE adapts fn into a cobra RunE that releases the environment when fn returns.
func (o *RootOptions) runE(fn func(cmd *cobra.Command, args []string, env *Env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() { err = errors.Join(err, o.closeEnv()) }()
		env := o.env
		err = fn(cmd, args, env)
		// a rejected sign-in is not an expired session
		if env != nil && env.SessionEnded() && cmd.Annotations[guardAnnotation] != guardGuest {
			_ = writeln(env.Err, SessionExpiredMessage)
		}
		return err
	}
}

func (o *RootOptions) closeEnv() error {
	if o.env == nil {
		return nil
	}
	err := o.env.Close()
	o.env = nil
	return err
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	_ = writef(cmd.ErrOrStderr(), "error: %s\n", errorText(err))
	return GetExitCode(err)
}

// errorText prefers the backend's message over the wrapped chain.
func errorText(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Error()
	}
	return backendapi.UserMessage(err, err.Error())
}
