package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"journal-cli/internal/model"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			p, err := e.client.GetProfile(ctx)
			if err != nil {
				return friendlyErr(err)
			}
			printProfile(cmd, p)
			return nil
		},
	}
	cmd.AddCommand(newProfileSetCmd(app))
	return cmd
}

func newProfileSetCmd(app *App) *cobra.Command {
	var firstName, lastName, bio, phone string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			p, err := e.client.GetProfile(ctx)
			if err != nil {
				return friendlyErr(err)
			}

			changed := false
			if cmd.Flags().Changed("first-name") {
				p.FirstName, changed = firstName, true
			}
			if cmd.Flags().Changed("last-name") {
				p.LastName, changed = lastName, true
			}
			if cmd.Flags().Changed("bio") {
				p.Bio, changed = bio, true
			}
			if cmd.Flags().Changed("phone") {
				p.PhoneNumber, changed = phone, true
			}
			if !changed {
				return cmd.Help()
			}

			updated, err := e.client.UpdateProfile(ctx, p)
			if err != nil {
				return friendlyErr(err)
			}
			printProfile(cmd, updated)
			return nil
		},
	}
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&bio, "bio", "", "Short bio")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	return cmd
}

func newPrefsCmd(app *App) *cobra.Command {
	var theme string
	var emailNotifications bool
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			p, err := e.client.GetProfile(ctx)
			if err != nil {
				return friendlyErr(err)
			}

			prefs := p.Preferences
			changed := false
			if cmd.Flags().Changed("theme") {
				prefs.Theme, changed = theme, true
			}
			if cmd.Flags().Changed("email-notifications") {
				prefs.EmailNotifications, changed = emailNotifications, true
			}

			if changed {
				if err := e.client.UpdatePreferences(ctx, prefs); err != nil {
					return friendlyErr(err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "theme: %s\n", prefs.Theme)
			fmt.Fprintf(out, "email notifications: %v\n", prefs.EmailNotifications)
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "UI theme (light|dark)")
	cmd.Flags().BoolVar(&emailNotifications, "email-notifications", false, "Send email notifications")
	return cmd
}

func printProfile(cmd *cobra.Command, p *model.Profile) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "email: %s\n", p.Email)
	if p.FirstName != "" || p.LastName != "" {
		fmt.Fprintf(out, "name: %s\n", strings.TrimSpace(p.FirstName+" "+p.LastName))
	}
	if p.PhoneNumber != "" {
		fmt.Fprintf(out, "phone: %s\n", p.PhoneNumber)
	}
	if p.Bio != "" {
		fmt.Fprintf(out, "bio: %s\n", p.Bio)
	}
	fmt.Fprintf(out, "theme: %s\n", p.Preferences.Theme)
	fmt.Fprintf(out, "email notifications: %v\n", p.Preferences.EmailNotifications)
}
