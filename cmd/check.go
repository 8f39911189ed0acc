package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imagespy/archcheck/batch"
	"github.com/imagespy/archcheck/checker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var checkCmd = &cobra.Command{
	Use:   "check IMAGE...",
	Short: "Checks the architectures of images and prints the results as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mustInitLogging()
		r := batch.NewRunner(newChecker(), viper.GetInt("workers"), viper.GetString("pushgateway.url"))
		items, err := r.Run(context.Background(), args)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		err = enc.Encode(items)
		if err != nil {
			return err
		}

		failed := 0
		for _, item := range items {
			if item.Result.Status == checker.StatusError {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d checks failed", failed, len(items))
		}

		return nil
	},
}

func init() {
	checkCmd.Flags().Int("workers", 1, "number of images to check at the same time")
	checkCmd.Flags().String("pushgateway.url", "", "push metrics about the run to this Prometheus pushgateway")
	viper.BindPFlag("workers", checkCmd.Flags().Lookup("workers"))
	viper.BindPFlag("pushgateway.url", checkCmd.Flags().Lookup("pushgateway.url"))
	rootCmd.AddCommand(checkCmd)
}
