package sync

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dunterov/aws-csv-to-confluence/internal/config"
	"github.com/dunterov/aws-csv-to-confluence/internal/publisher"
	"github.com/dunterov/aws-csv-to-confluence/pkg/console"
)

func NewCommand() *cobra.Command {
	var configPath string
	var file string
	var subtitle string
	var ignoreGroups []string
	var ignoreResourceTypes []string
	var clean bool

	var cmd = &cobra.Command{
		Use:   "sync",
		Short: "Publishes the inventory as one page per resource group, optionally pruning stale pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := config.NewConfigFromFile(configPath)
			if err != nil {
				return err
			}

			if file != "" {
				c.Sync.Inventory.File = file
			}
			if subtitle != "" {
				c.Sync.Inventory.Subtitle = subtitle
			}
			if len(ignoreGroups) > 0 {
				c.Sync.Inventory.IgnoreGroups = ignoreGroups
			}
			if len(ignoreResourceTypes) > 0 {
				c.Sync.Inventory.IgnoreResourceTypes = ignoreResourceTypes
			}
			if cmd.Flags().Changed("clean") {
				c.Sync.Clean = clean
			}

			// Environment credentials win over whatever the config file carries.
			if v := viper.GetString("token"); v != "" {
				c.Sync.Confluence.Token = v
			}
			if v := viper.GetString("username"); v != "" {
				c.Sync.Confluence.Username = v
			}

			if err := c.Validate(); err != nil {
				return err
			}

			// Arguments are good; failures past this point are not usage errors.
			cmd.SilenceUsage = true

			logger, err := config.InitializeLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync()
			l := logger.Named("csv2confluence.sync")

			// Captured before the first remote call, so cleanup can prove a
			// child page predates this run.
			runStart := time.Now().UTC()

			l.Info("starting sync",
				zap.String("file", c.Sync.Inventory.File),
				zap.String("subtitle", c.Sync.Inventory.Subtitle),
				zap.Bool("clean", c.Sync.Clean),
			)

			in, err := config.OpenInventory(ctx, c, l)
			if err != nil {
				return err
			}
			defer in.Close()

			p, err := config.InitializePublisher(ctx, c, in, l, runStart)
			if err != nil {
				return err
			}

			cat, runErr := p.Run(ctx)
			if cat != nil {
				if c.Sync.ReportPath != "" {
					if err := cat.WriteFile(c.Sync.ReportPath); err != nil {
						l.Error("writing run report failed",
							zap.String("path", c.Sync.ReportPath),
							zap.Error(err),
						)
					}
				}
				console.New().Summary(cat)
			}

			var partial *publisher.PartialError
			if errors.As(runErr, &partial) {
				l.Warn("sync finished partially",
					zap.Int("failures", len(partial.Failures)),
				)
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.MarkFlagRequired("config")
	cmd.Flags().StringVar(&file, "file", "", "Inventory CSV path or s3:// URL, overrides the config")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "Extra bracketed segment for page titles")
	cmd.Flags().StringSliceVar(&ignoreGroups, "ignore-group", nil, "Resource group to skip, repeatable")
	cmd.Flags().StringSliceVar(&ignoreResourceTypes, "ignore-resource-type", nil, "Resource type to skip, repeatable")
	cmd.Flags().BoolVar(&clean, "clean", false, "Delete stale child pages after publishing")

	viper.SetEnvPrefix("CONFLUENCE")
	viper.BindEnv("token")
	viper.BindEnv("username")

	return cmd
}
