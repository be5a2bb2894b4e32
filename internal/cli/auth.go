package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Email         string
	PasswordStdin bool
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in with an admin email and password. The session is stored in the
configured session storage and reused by later commands.

Example:
  echo "$PASSWORD" | backoffice-admin login --email ops@example.com --password-stdin`,
		Args: cobra.NoArgs,
		RunE: opts.runE(func(cmd *cobra.Command, _ []string, env *Env) error {
			return runLogin(cmd, opts, env)
		}),
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "admin email (prompted when omitted)")
	cmd.Flags().BoolVar(&opts.PasswordStdin, "password-stdin", false, "read the password from stdin without prompting")

	return guarded(cmd, guardGuest)
}

func runLogin(cmd *cobra.Command, opts *LoginOptions, env *Env) error {
	reader := bufio.NewReader(env.In)

	email := strings.TrimSpace(opts.Email)
	if email == "" {
		if opts.PasswordStdin {
			return NewExitError(ExitCommandError, "--email is required with --password-stdin")
		}
		var err error
		if email, err = prompt(reader, env.Err, "Email: "); err != nil {
			return err
		}
	}

	label := "Password: "
	if opts.PasswordStdin {
		label = ""
	}
	password, err := prompt(reader, env.Err, label)
	if err != nil {
		return err
	}

	principal, err := env.Services.Auth.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	if !env.Services.Sessions.Interactive() {
		_ = writeln(env.Err, "warning: session storage is disabled; the session ends with this command")
	}
	p := opts.Printer()
	return p.Result(principal, func() error {
		return p.Message("Signed in as %s (%s)", displayName(principal), principal.Role.Label())
	})
}

// prompt writes label (when set) and reads one line.
func prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if label != "" {
		if err := writef(w, "%s", label); err != nil {
			return "", err
		}
	}
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSecret reads a single line from stdin without a prompt.
func readSecret(in io.Reader) (string, error) {
	return prompt(bufio.NewReader(in), io.Discard, "")
}

func displayName(p *domainauth.Principal) string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return fmt.Sprintf("%s <%s>", p.Name, p.Email)
	}
	return p.Email
}

// NewLogoutCommand creates the logout command. It is not guarded: signing out
// without a session is a no-op.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the stored session",
		Args:  cobra.NoArgs,
		RunE: rootOpts.runE(func(cmd *cobra.Command, _ []string, env *Env) error {
			wasSignedIn := env.Services.Sessions.IsAuthenticated()
			if err := env.Services.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			if !wasSignedIn {
				return writeln(env.Out, "Not signed in.")
			}
			return writeln(env.Out, "Signed out.")
		}),
	}
	return guarded(cmd, guardNone)
}

// WhoamiOptions holds flags for the whoami command.
type WhoamiOptions struct {
	*RootOptions
	Refresh bool
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WhoamiOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in admin",
		Args:  cobra.NoArgs,
		RunE: opts.runE(func(cmd *cobra.Command, _ []string, env *Env) error {
			principal := env.Services.Sessions.Principal()
			if opts.Refresh {
				var err error
				if principal, err = env.Services.Auth.RefreshPrincipal(cmd.Context()); err != nil {
					return err
				}
			}
			if principal == nil {
				return errNotSignedIn
			}
			p := opts.Printer()
			return p.Result(principal, func() error {
				return p.Fields("", [][2]string{
					{"ID", principal.ID},
					{"Name", principal.Name},
					{"Email", principal.Email},
					{"Role", principal.Role.Label()},
				})
			})
		}),
	}

	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "reload the profile from the backend")

	return guarded(cmd, guardAuthenticated)
}
