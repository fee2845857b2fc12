package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/services"
)

// VolunteerCmd manages volunteer profiles synced from the account service
func VolunteerCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volunteer",
		Short: "Register and remove volunteer profiles",
	}

	register := &cobra.Command{
		Use:   "register",
		Short: "Create or refresh a volunteer profile from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}
			var in services.VolunteerInput
			path, _ := cmd.Flags().GetString("file")
			if err := readYAML(path, &in); err != nil {
				return err
			}

			v, err := services.RegisterVolunteer(app.Ctx, app.Store, app.Logger, actor, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Volunteer %s registered (%s)\n\n", v.DisplayName(), v.ID)
			return nil
		},
	}
	register.Flags().StringP("file", "f", "", "YAML file with the volunteer profile")
	register.MarkFlagRequired("file")

	remove := &cobra.Command{
		Use:   "delete <volunteer_id>",
		Short: "Remove a volunteer's personal data, keeping their history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}
			if err := services.SoftDeleteVolunteer(app.Ctx, app.Store, app.Logger, actor, args[0], app.now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Volunteer %s deleted\n\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(register, remove)
	return cmd
}

// OrganizationCmd manages organizations synced from the account service
func OrganizationCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organization",
		Short: "Register and remove organizations",
	}

	register := &cobra.Command{
		Use:   "register",
		Short: "Create or refresh an organization from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}
			var in services.OrganizationInput
			path, _ := cmd.Flags().GetString("file")
			if err := readYAML(path, &in); err != nil {
				return err
			}

			o, err := services.RegisterOrganization(app.Ctx, app.Store, app.Logger, actor, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Organization %s registered (%s)\n\n", o.DisplayName(), o.ID)
			return nil
		},
	}
	register.Flags().StringP("file", "f", "", "YAML file with the organization")
	register.MarkFlagRequired("file")

	remove := &cobra.Command{
		Use:   "delete <organization_id>",
		Short: "Remove an organization's details, keeping its projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}
			if err := services.SoftDeleteOrganization(app.Ctx, app.Store, app.Logger, actor, args[0], app.now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Organization %s deleted\n\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(register, remove)
	return cmd
}
