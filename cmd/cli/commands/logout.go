package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/lesson-scheduler/pkg/utils"
)

// LogoutCmd creates the logout command
func LogoutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored Google token for this environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.DeleteTokenFile(app.Env); err != nil {
				return err
			}
			utils.ClearToken()

			app.Logger.Debug("Token deleted", zap.String("env", app.Env))
			fmt.Printf("\n✓ Logged out. The next Sheets command will ask for authorization again.\n")

			return nil
		},
	}
}
