package main

import (
	"github.com/plus3/blockfall/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	var schema bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective tuning as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schema {
				_, err := cmd.OutOrStdout().Write(config.Schema())
				return err
			}

			t, err := a.tuning()
			if err != nil {
				return err
			}
			return t.Save(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&schema, "schema", false, "print the JSON schema of the tuning file instead")
	return cmd
}
