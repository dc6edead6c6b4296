package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/henri123lemoine/eatsplit/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the eatsplit config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.resolveConfigPath()
			if err != nil {
				return err
			}
			if err := config.CreateDefaultConfigFile(path, force); err != nil {
				return err
			}
			pterm.Success.Printf("Config written to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print where the config file is read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.resolveConfigPath()
			if err != nil {
				return err
			}
			cmd.Println(path)
			return nil
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}
