package fixtures

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
)

var services = []string{"ec2", "s3", "rds", "lambda", "dynamodb", "sqs"}

var regions = []string{"us-east-1", "us-east-2", "eu-west-1", "eu-central-1"}

var typesByService = map[string][]string{
	"ec2":      {"instance", "volume", "snapshot", "security-group"},
	"s3":       {"bucket"},
	"rds":      {"db", "snapshot"},
	"lambda":   {"function"},
	"dynamodb": {"table"},
	"sqs":      {"queue"},
}

var idPrefixes = map[string]string{
	"instance":       "i",
	"volume":         "vol",
	"snapshot":       "snap",
	"security-group": "sg",
	"bucket":         "bkt",
	"db":             "db",
	"function":       "fn",
	"table":          "tbl",
	"queue":          "q",
}

func newGenerateCommand() *cobra.Command {
	var records int
	var out string
	var seed int64

	var cmd = &cobra.Command{
		Use:   "generate",
		Short: "Generates a synthetic inventory CSV for testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			rng := rand.New(rand.NewSource(seed))

			w := csv.NewWriter(f)
			if err := w.Write([]string{"Identifier", "Tag: Name", "Type", "Region", "ARN", "Service"}); err != nil {
				return err
			}

			for i := 0; i < records; i++ {
				service := services[rng.Intn(len(services))]
				types := typesByService[service]
				rtype := types[rng.Intn(len(types))]
				region := regions[rng.Intn(len(regions))]
				id := fmt.Sprintf("%s-%08x", idPrefixes[rtype], rng.Uint32())

				// Roughly a quarter of resources go out untagged.
				name := ""
				if rng.Intn(4) > 0 {
					name = fmt.Sprintf("%s-%s-%d", service, rtype, i)
				}

				arn := fmt.Sprintf("arn:aws:%s:%s:123456789012:%s/%s", service, region, rtype, id)

				if err := w.Write([]string{id, name, rtype, region, arn, service}); err != nil {
					return err
				}
			}

			w.Flush()
			if err := w.Error(); err != nil {
				return err
			}

			fmt.Printf("Wrote %d records to %s\n", records, out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&records, "records", "r", 50, "Number of records to generate")
	cmd.Flags().StringVarP(&out, "out", "o", "fixtures.csv", "Output CSV path")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed, fixed for reproducible documents")
	return cmd
}
