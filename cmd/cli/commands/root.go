package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. setup runs once before any command and fills in app.
func NewRootCmd(app *AppContext, setup func(app *AppContext) error) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "volunteers",
		Short:         "Volunteers for city projects - manage projects, applications and rosters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if setup == nil {
				return nil
			}
			return setup(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&app.Env, "env", "e", "", "Environment; selects volunteers_config.<env>.yaml")
	flags.StringVar(&app.StoreKind, "store", "memory", "Storage backend: memory or postgres")
	flags.BoolVarP(&app.Verbose, "verbose", "v", false, "Log debug output to the console")
	flags.StringVar(&app.Actor.UserID, "actor-id", "", "User ID of the caller")
	flags.StringVar(&app.Actor.Role, "role", "", "Role of the caller: admin, organizer or volunteer")
	flags.StringVar(&app.Actor.OrganizationID, "organization-id", "", "Organization of an organizer")
	flags.StringVar(&app.Actor.VolunteerID, "volunteer-id", "", "Volunteer profile of a volunteer")

	rootCmd.AddCommand(
		ProjectCmd(app),
		IncomeCmd(app),
		RosterCmd(app),
		VolunteerCmd(app),
		OrganizationCmd(app),
		WorkerCmd(app),
		MigrateCmd(app),
		InteractiveCmd(app),
	)
	return rootCmd
}
