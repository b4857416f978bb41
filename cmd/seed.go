package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/yeremiapane/tuber-treats/database"
	"github.com/yeremiapane/tuber-treats/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo customers, drivers, toppings and orders into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		_, err = database.Seed(cmd.Context(), store.NewGormStore(db), time.Now())
		return err
	},
}
