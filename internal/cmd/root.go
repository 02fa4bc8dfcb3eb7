package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	configcmd "github.com/dunterov/aws-csv-to-confluence/internal/cmd/config"
	"github.com/dunterov/aws-csv-to-confluence/internal/cmd/fixtures"
	"github.com/dunterov/aws-csv-to-confluence/internal/cmd/sync"
)

const version = "0.3.0"

func NewRootCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "aws-csv-to-confluence",
		Short:   "Publishes an AWS resource inventory CSV as Confluence pages",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A local .env may carry CONFLUENCE_TOKEN and CONFLUENCE_USERNAME.
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(sync.NewCommand())
	cmd.AddCommand(fixtures.NewCommand())
	cmd.AddCommand(configcmd.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
