package cmd

import (
	"fmt"
	"strings"

	"github.com/chrisdamba/vendorcast/internal/predictor"
	"github.com/spf13/cobra"
)

var guidanceCmd = &cobra.Command{
	Use:   "guidance",
	Short: "Print the vendor guidance prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		prompts, err := predictor.LoadPromptTemplates(cfg.PromptsFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, key := range predictor.PromptKeys {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "## %s\n%s\n", strings.ReplaceAll(key, "_", " "), prompts[key])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guidanceCmd)
}
