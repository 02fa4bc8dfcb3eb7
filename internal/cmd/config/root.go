package config

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "config",
		Short: "Utilities for the sync configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("aws-csv-to-confluence config utilities!")
			return nil
		},
	}

	cmd.AddCommand(newInitCommand())

	return cmd
}
