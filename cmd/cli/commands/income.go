package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/services"
)

// IncomeCmd groups the commands for volunteer applications
func IncomeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Apply to projects and decide on applications",
	}

	cmd.AddCommand(
		incomeSubmitCmd(app),
		incomeAcceptCmd(app),
		incomeRejectCmd(app),
		incomeWithdrawCmd(app),
		incomeListCmd(app),
	)
	return cmd
}

func incomeSubmitCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <project_id>",
		Short: "Apply to a project as the current volunteer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}

			req := services.SubmitIncomeRequest{ProjectID: args[0]}
			req.Phone, _ = cmd.Flags().GetString("phone")
			req.Telegram, _ = cmd.Flags().GetString("telegram")
			req.CoverLetter, _ = cmd.Flags().GetString("cover-letter")

			income, err := services.SubmitIncome(app.Ctx, app.Store, app.Logger, actor, req, app.now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Application submitted\n\nIncome ID: %s\nStatus:    %s\n\n", income.ID, income.Status)
			return nil
		},
	}
	cmd.Flags().String("phone", "", "Contact phone (+7XXXXXXXXXX)")
	cmd.Flags().String("telegram", "", "Telegram handle (@name)")
	cmd.Flags().String("cover-letter", "", "Why you want to take part")
	cmd.MarkFlagRequired("phone")
	return cmd
}

func incomeAcceptCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <income_id>",
		Short: "Accept an application and add the volunteer to the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}

			participant, err := services.AcceptIncome(app.Ctx, app.Store, app.Notifier, app.Logger, actor, args[0], app.site(), app.now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Application accepted\n\nParticipant ID: %s\nVolunteer ID:   %s\n\n", participant.ID, participant.VolunteerID)
			return nil
		},
	}
}

func incomeRejectCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <income_id>",
		Short: "Reject an application, removing the volunteer from the roster if accepted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}

			income, err := services.RejectIncome(app.Ctx, app.Store, app.Notifier, app.Logger, actor, args[0], app.site(), app.now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Application %s rejected\n\n", income.ID)
			return nil
		},
	}
}

func incomeWithdrawCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <income_id>",
		Short: "Withdraw your own pending application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}
			if err := services.WithdrawIncome(app.Ctx, app.Store, app.Logger, actor, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Application %s withdrawn\n\n", args[0])
			return nil
		},
	}
}

func incomeListCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [volunteer_id]",
		Short: "List a volunteer's applications and participations (defaults to the current volunteer)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}
			volunteerID := actor.VolunteerID
			if len(args) > 0 {
				volunteerID = args[0]
			}
			if volunteerID == "" {
				return fmt.Errorf("volunteer_id is required when not running as a volunteer")
			}

			profile, err := services.VolunteerProfile(app.Ctx, app.Store, app.Logger, actor, volunteerID, app.now())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\n%s\n\nApplications (%d):\n", profile.Volunteer.DisplayName(), len(profile.Applications))
			for _, a := range profile.Applications {
				fmt.Fprintf(w, "  - %s  %-22s %s [%s]\n", a.Income.ID, a.Income.Status, a.ProjectName, a.DisplayStatus)
			}
			fmt.Fprintf(w, "\nParticipations (%d):\n", len(profile.Participations))
			for _, p := range profile.Participations {
				fmt.Fprintf(w, "  - %s [%s]\n", p.ProjectName, p.DisplayStatus)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}
