package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFormsCmd(globals *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the forms of the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(globals)
			if err != nil {
				return err
			}
			for _, id := range cfg.FormIDs() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
