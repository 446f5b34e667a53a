package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-tracker/internal/api/dto"
	"github.com/spec-kit/ticket-tracker/internal/validation"
)

// InitCmd prepares an empty store. Existing data is kept.
func InitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.InitializeApp(cmd.Context()); err != nil {
				return fmt.Errorf("failed to initialize store: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Store ready")
			return nil
		},
	}
}

// SignupCmd registers an account and signs it in.
func SignupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := authForm(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res := validation.ValidateAuth(form.Input(), true); !res.IsValid {
				return printFieldErrors(out, res.Errors)
			}

			res, err := app.Auth.Signup(cmd.Context(), form.Name, form.Email, form.Password)
			if err != nil {
				return fmt.Errorf("failed to sign up: %w", err)
			}
			return printResult(out, res, "Signup successful!")
		},
	}
	cmd.Flags().String("name", "", "Display name")
	addCredentialFlags(cmd)
	return cmd
}

// LoginCmd signs in an existing account.
func LoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := authForm(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res := validation.ValidateAuth(form.Input(), false); !res.IsValid {
				return printFieldErrors(out, res.Errors)
			}

			res, err := app.Auth.Login(cmd.Context(), form.Email, form.Password)
			if err != nil {
				return fmt.Errorf("failed to log in: %w", err)
			}
			return printResult(out, res, "Login successful!")
		},
	}
	addCredentialFlags(cmd)
	return cmd
}

// LogoutCmd ends the active session.
func LogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("failed to log out: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// WhoamiCmd shows the signed-in account.
func WhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.requireSession(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", session.Name, session.Email)
			fmt.Fprintf(out, "  Signed in: %s\n", session.StartedAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}

// ResetCmd wipes accounts, session and tickets.
func ResetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all accounts and tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(cmd, "Delete all accounts, the session and every ticket?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
			if err := app.Auth.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("failed to reset store: %w", err)
			}
			if err := app.Auth.InitializeApp(cmd.Context()); err != nil {
				return fmt.Errorf("failed to initialize store: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Store reset")
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
	return cmd
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password")
	cmd.Flags().String("form", "", "JSON form document, or - to read it from stdin")
}

// authForm reads the form from --form when given, otherwise from flags.
func authForm(cmd *cobra.Command) (dto.AuthForm, error) {
	if raw, _ := cmd.Flags().GetString("form"); raw != "" {
		return dto.DecodeAuthForm(formReader(cmd, raw))
	}
	var form dto.AuthForm
	if cmd.Flags().Lookup("name") != nil {
		form.Name, _ = cmd.Flags().GetString("name")
	}
	form.Email, _ = cmd.Flags().GetString("email")
	form.Password, _ = cmd.Flags().GetString("password")
	return form, nil
}
