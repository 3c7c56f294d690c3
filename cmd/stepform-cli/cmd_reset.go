package main

import (
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the persisted answers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, _, store, err := openSession(nil)
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		cmd.Printf("Cleared answers stored under %q\n", store.Key())
		return nil
	},
}
