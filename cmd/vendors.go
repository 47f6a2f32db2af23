package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/spf13/cobra"
)

type vendorListing struct {
	ID              string              `json:"id"`
	DisplayName     string              `json:"display_name"`
	LocationType    models.LocationType `json:"location_type"`
	AvgDailyRevenue float64             `json:"avg_daily_revenue"`
}

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "List the vendors in the memory file",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		var listing []vendorListing
		for _, id := range a.pred.VendorIDs() {
			p, err := a.pred.Vendor(id)
			if err != nil {
				return err
			}
			listing = append(listing, vendorListing{
				ID:              id,
				DisplayName:     models.DisplayName(id),
				LocationType:    p.LocationType,
				AvgDailyRevenue: p.AvgDailyRevenue,
			})
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if listing == nil {
				listing = []vendorListing{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(listing)
		}

		if len(listing) == 0 {
			fmt.Fprintln(out, "No vendors in memory. Run `vendorcast seed --demo` first.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tVENDOR\tCATEGORY\tAVG REVENUE")
		for i, l := range listing {
			fmt.Fprintf(tw, "%d\t%s\t%s\t₹%.0f\n", i+1, l.DisplayName, l.LocationType, l.AvgDailyRevenue)
		}
		return tw.Flush()
	},
}

func init() {
	vendorsCmd.Flags().Bool("json", false, "print as JSON")
	rootCmd.AddCommand(vendorsCmd)
}
