package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devtrack/taskboard/internal/client"
	"github.com/devtrack/taskboard/internal/models"
)

func newRegisterCmd(app *App) *cobra.Command {
	var req client.RegisterRequest
	var role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Role = models.Role(strings.ToUpper(role))
			if req.Role != models.RoleManager && req.Role != models.RoleDeveloper {
				return fmt.Errorf("role must be MANAGER or DEVELOPER, got %q", role)
			}
			if req.Role == models.RoleDeveloper && req.DeveloperType == "" {
				return fmt.Errorf("--developer-type is required for developers")
			}
			if req.Role == models.RoleManager {
				req.DeveloperType = ""
			}

			u, err := app.Auth.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s <%s> as %s\n", u.FullName(), u.Email, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&role, "role", "", "MANAGER or DEVELOPER")
	cmd.Flags().StringVar(&req.DeveloperType, "developer-type", "", "FRONTEND, BACKEND or TESTER (developers only)")
	cmd.MarkFlagRequired("first-name")
	cmd.MarkFlagRequired("last-name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("role")

	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var creds client.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and start a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Auth.Login(cmd.Context(), creds)
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "email address")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Auth.Logout(cmd.Context())
		},
	}
}

func newProfileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(); err != nil {
				return err
			}
			u := app.Auth.User()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s <%s>\n", u.FullName(), u.Email)
			fmt.Fprintf(out, "Role: %s\n", u.Role)

			switch det := u.Details.(type) {
			case *models.ManagerDetails:
				fmt.Fprintf(out, "Team (%d):\n", len(det.Team))
				for _, d := range det.Team {
					fmt.Fprintf(out, "  %s %s <%s> — %s\n", d.FirstName, d.LastName, d.Email, d.DeveloperType)
				}
			case *models.DeveloperDetails:
				fmt.Fprintf(out, "Specialization: %s\n", det.DeveloperType)
				fmt.Fprintf(out, "Assigned tasks: %d\n", len(det.Tasks))
			}
			return nil
		},
	}
}
