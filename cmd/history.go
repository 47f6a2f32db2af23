package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/chrisdamba/vendorcast/internal/output"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history VENDOR_ID",
	Short: "Show stored predictions for a vendor from the configured database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		if cfg.Database.Driver == models.DriverNone {
			return errors.New("no prediction database configured, set database.driver to sqlite or postgres")
		}
		repo, err := output.OpenRepository(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer repo.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := repo.ListByVendor(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintf(out, "No predictions stored for %s.\n", args[0])
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tDAY\tWEATHER\tREVENUE\tCONFIDENCE\tITEMS")
		for _, r := range records {
			fmt.Fprintf(tw, "%s\t%s\t%s %d°C\t₹%d – ₹%d\t%.2f\t%s\n",
				r.Date, r.DayOfWeek, r.Weather, r.Temperature, r.RevenueMin, r.RevenueMax, r.Confidence, r.Items)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of predictions to show")
	rootCmd.AddCommand(historyCmd)
}
