package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yeremiapane/tuber-treats/utils"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		utils.InfoLogger.Info("Database migrations completed successfully")
		return nil
	},
}
