package cmd

import (
	"github.com/chrisdamba/vendorcast/internal/terminal"
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Interactively forecast one day for a stored vendor",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		session := terminal.NewSession(cmd.InOrStdin(), cmd.OutOrStdout(), a.pred,
			terminal.WithDefaults(a.cfg.Defaults))
		return session.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
}
