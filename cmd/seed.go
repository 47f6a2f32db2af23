package cmd

import (
	"errors"
	"fmt"

	"github.com/chrisdamba/vendorcast/internal/factories"
	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Register demo or generated vendors in the memory file",
	RunE: func(cmd *cobra.Command, args []string) error {
		demo, _ := cmd.Flags().GetBool("demo")
		count, _ := cmd.Flags().GetInt("count")
		if !demo && count <= 0 {
			return errors.New("nothing to seed: pass --demo and/or --count N")
		}

		a, err := newApp(cmd.Context(), cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		var profiles []models.VendorProfile
		if demo {
			profiles = append(profiles, factories.DemoVendor())
		}
		if count > 0 {
			vf := factories.NewVendorFactory()
			if cmd.Flags().Changed("seed") {
				seed, _ := cmd.Flags().GetInt64("seed")
				vf = factories.NewSeededVendorFactory(seed)
			}
			profiles = append(profiles, vf.CreateVendors(count)...)
		}

		before := a.store.Len()
		if err := a.pred.Register(profiles...); err != nil {
			return err
		}
		added := a.store.Len() - before
		a.logger.Info("vendors seeded", zap.Int("requested", len(profiles)), zap.Int("added", added))
		fmt.Fprintf(cmd.OutOrStdout(), "Registered %d vendor(s), %d new. Memory now holds %d.\n", len(profiles), added, a.store.Len())
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("demo", false, "register the Raman Chai Wala demo vendor")
	seedCmd.Flags().Int("count", 0, "number of generated vendors to register")
	seedCmd.Flags().Int64("seed", 0, "random seed for generated vendors")
	rootCmd.AddCommand(seedCmd)
}
