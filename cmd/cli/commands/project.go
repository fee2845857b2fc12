package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/services"
)

// ProjectCmd groups the project lifecycle commands
func ProjectCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create, submit, moderate and inspect projects",
	}

	cmd.AddCommand(
		projectDraftCmd(app),
		projectSubmitCmd(app),
		projectUpdateCmd(app),
		projectReviewCmd(app),
		projectStatusCmd(app),
		projectDeleteCmd(app),
	)
	return cmd
}

func loadProjectInput(cmd *cobra.Command) (services.ProjectInput, error) {
	var in services.ProjectInput
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return in, nil
	}
	err := readYAML(path, &in)
	return in, err
}

func projectDraftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft [project_id]",
		Short: "Save a new draft, or update an existing draft",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}
			in, err := loadProjectInput(cmd)
			if err != nil {
				return err
			}
			var id string
			if len(args) > 0 {
				id = args[0]
			}

			p, err := services.SaveDraft(app.Ctx, app.Store, app.Logger, actor, in, id, app.now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Draft saved\n\n")
			printProject(cmd.OutOrStdout(), p, app.location())
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "YAML file with project fields")
	return cmd
}

func projectSubmitCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit [project_id]",
		Short: "Send a project to moderation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}
			in, err := loadProjectInput(cmd)
			if err != nil {
				return err
			}
			var id string
			if len(args) > 0 {
				id = args[0]
			}

			p, err := services.SubmitForReview(app.Ctx, app.Store, app.Logger, app.Policy, actor, in, id, app.now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Project submitted for review\n\n")
			printProject(cmd.OutOrStdout(), p, app.location())
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "YAML file with project fields")
	return cmd
}

func projectUpdateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <project_id>",
		Short: "Change project fields and optionally request a status change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}
			in, err := loadProjectInput(cmd)
			if err != nil {
				return err
			}

			var requested *model.ApprovalStatus
			if raw, _ := cmd.Flags().GetString("status"); raw != "" {
				s, err := model.ParseApprovalStatus(raw)
				if err != nil {
					return err
				}
				requested = &s
			}

			p, err := services.UpdateProject(app.Ctx, app.Store, app.Logger, app.Policy, actor, args[0], in, requested, app.now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Project updated\n\n")
			printProject(cmd.OutOrStdout(), p, app.location())
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "YAML file with the fields to change")
	cmd.Flags().String("status", "", "Requested approval status (e.g. canceled_by_organizer)")
	return cmd
}

func projectReviewCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review <project_id>",
		Short: "Approve or reject a pending project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}
			decision, _ := cmd.Flags().GetString("decision")
			comments, _ := cmd.Flags().GetString("comments")

			p, err := services.ReviewProject(app.Ctx, app.Store, app.Logger, actor, args[0], services.ReviewRequest{
				Decision:      model.ApprovalStatus(decision),
				AdminComments: comments,
			}, app.now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Project %s\n\n", p.StatusApprove)
			printProject(cmd.OutOrStdout(), p, app.location())
			return nil
		},
	}
	cmd.Flags().String("decision", "", "approved or rejected")
	cmd.Flags().String("comments", "", "Comments for the organizer")
	cmd.MarkFlagRequired("decision")
	return cmd
}

func projectStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <project_id>",
		Short: "Show a project's current display status, roster and applications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}

			overview, err := services.ProjectOverview(app.Ctx, app.Store, app.Logger, actor, args[0], app.now())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w)
			printProject(w, overview.Project, app.location())
			fmt.Fprintf(w, "Organizer:    %s\n", overview.OrganizationName)
			fmt.Fprintf(w, "Shown as:     %s\n", overview.DisplayStatus)
			fmt.Fprintf(w, "Accepting:    %t\n\n", overview.AcceptsApplications)

			fmt.Fprintf(w, "Participants (%d):\n", len(overview.Participants))
			for _, p := range overview.Participants {
				fmt.Fprintf(w, "  - %s (joined %s)\n", p.VolunteerName, formatTime(&p.Participant.CreatedAt, app.location()))
			}
			if overview.Incomes != nil {
				fmt.Fprintf(w, "\nApplications (%d):\n", len(overview.Incomes))
				for _, i := range overview.Incomes {
					fmt.Fprintf(w, "  - %s  %-22s %s\n", i.Income.ID, i.Income.Status, i.VolunteerName)
				}
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}

func projectDeleteCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project_id>",
		Short: "Delete a project with its applications and roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.CurrentActor()
			if err != nil {
				return err
			}
			if err := services.DeleteProject(app.Ctx, app.Store, app.Logger, actor, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Project %s deleted\n\n", args[0])
			return nil
		},
	}
}
