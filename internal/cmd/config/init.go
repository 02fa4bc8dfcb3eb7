package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dunterov/aws-csv-to-confluence/internal/config"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Prints a starter configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			starter := config.Config{
				Global: config.Global{
					Logger: config.Logger{Level: "info"},
				},
				Sync: config.Sync{
					Confluence: config.Confluence{
						URL:      "https://example.atlassian.net/wiki",
						Username: "inventory-bot@example.com",
						ParentID: "331318947",
					},
					Inventory: config.Inventory{
						File:     "./aws-resources.csv",
						Subtitle: "prod",
					},
					ReportPath: "./sync-report.json",
					S3: config.S3{
						Region: "us-east-1",
					},
				},
			}

			bs, err := yaml.Marshal(&starter)
			if err != nil {
				return err
			}

			fmt.Println(string(bs))
			return nil
		},
	}
}
