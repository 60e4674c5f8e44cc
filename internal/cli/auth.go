package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"journal-cli/internal/api"
	"journal-cli/internal/session"
)

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and store the session credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			email := strings.TrimSpace(args[0])
			password, err := promptPassword(cmd, "Password: ")
			if err != nil {
				return err
			}

			res, err := e.client.Login(ctx, email, password)
			if err != nil {
				return loginFailure(ctx, cmd, e, email, err)
			}

			cred, err := session.ParseCredential(res.Token)
			if err != nil {
				return fmt.Errorf("server returned an unusable token: %w", err)
			}
			if cred.OwnerEmail == "" {
				cred.OwnerEmail = res.User.Email
			}
			if err := e.sessions.Set(ctx, cred); err != nil {
				return err
			}
			_ = e.store.Delete(ctx, session.KeyUnverifiedEmail)

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (session valid until %s)\n",
				cred.OwnerEmail, formatWhen(cred.ExpiresAt))
			return nil
		},
	}
}

// loginFailure handles the unverified-account branch: the server rejects
// the login, we trigger a fresh code and remember the address so `journal
// verify` works without retyping it.
func loginFailure(ctx context.Context, cmd *cobra.Command, e *env, email string, err error) error {
	var verr *api.ValidationError
	if errors.As(err, &verr) && strings.Contains(strings.ToLower(verr.Message), "verif") {
		_ = e.store.Set(ctx, session.KeyUnverifiedEmail, email)
		if genErr := e.client.GenerateOTP(ctx, email); genErr == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Account not verified. A verification code was sent to your email.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Account not verified. Request a code with `journal resend-otp`.")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Verify with: journal verify <code>")
		return errors.New("email not verified")
	}
	return err
}

func newSignupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <email>",
		Short: "Create an account (requires email verification)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			email := strings.TrimSpace(args[0])
			password, err := promptNewPassword(cmd)
			if err != nil {
				return err
			}

			if err := e.client.Signup(ctx, email, password); err != nil {
				return err
			}
			_ = e.store.Set(ctx, session.KeyUnverifiedEmail, email)

			fmt.Fprintln(cmd.OutOrStdout(), "Account created. Check your inbox for a verification code, then run: journal verify <code>")
			return nil
		},
	}
}

func newVerifyCmd(app *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "verify <code>",
		Short: "Confirm your email with the one-time code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			addr, err := resolveEmail(ctx, e, email)
			if err != nil {
				return err
			}
			if err := e.client.VerifyOTP(ctx, addr, strings.TrimSpace(args[0])); err != nil {
				return err
			}
			_ = e.store.Delete(ctx, session.KeyUnverifiedEmail)

			fmt.Fprintln(cmd.OutOrStdout(), "Email verified. Sign in with: journal login "+addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (default: the address from the last signup/login attempt)")
	return cmd
}

func newResendOTPCmd(app *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "resend-otp",
		Short: "Send a fresh verification code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			addr, err := resolveEmail(ctx, e, email)
			if err != nil {
				return err
			}
			if err := e.client.ResendOTP(ctx, addr); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Verification code sent to "+addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (default: the address from the last signup/login attempt)")
	return cmd
}

func newForgotPasswordCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset token by email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.client.RequestPasswordReset(ctx, strings.TrimSpace(args[0])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "If the address exists, a reset token is on its way. Complete with: journal reset-password <token>")
			return nil
		},
	}
}

func newResetPasswordCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password with the mailed reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			password, err := promptNewPassword(cmd)
			if err != nil {
				return err
			}
			if err := e.client.ResetPassword(ctx, strings.TrimSpace(args[0]), password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated. Sign in with: journal login <email>")
			return nil
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and wipe the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.sessions.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account and session expiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			cred := e.sessions.Get()
			if cred == nil {
				return errors.New("not signed in; run `journal login <email>`")
			}
			status := "valid until " + formatWhen(cred.ExpiresAt)
			if cred.Expired(time.Now()) {
				status = "expired " + formatWhen(cred.ExpiresAt)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (session %s)\n", cred.OwnerEmail, status)
			return nil
		},
	}
}

// resolveEmail prefers the explicit flag, then the stored unverified-email
// hint from the last signup or failed login.
func resolveEmail(ctx context.Context, e *env, flag string) (string, error) {
	if v := strings.TrimSpace(flag); v != "" {
		return v, nil
	}
	stored, err := e.store.Get(ctx, session.KeyUnverifiedEmail)
	if err != nil {
		return "", err
	}
	if stored == "" {
		return "", errors.New("no pending address; pass --email")
	}
	return stored, nil
}

// promptPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read for pipes and tests.
func promptPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	r := bufio.NewReader(cmd.InOrStdin())
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func promptNewPassword(cmd *cobra.Command) (string, error) {
	p1, err := promptPassword(cmd, "New password: ")
	if err != nil {
		return "", err
	}
	p2, err := promptPassword(cmd, "Repeat password: ")
	if err != nil {
		return "", err
	}
	if p1 != p2 {
		return "", errors.New("passwords do not match")
	}
	if len(p1) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	return p1, nil
}
