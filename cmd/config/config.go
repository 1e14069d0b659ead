package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/conf"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/runtime"
)

// Command creates the config parent command
func Command() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Commands related to the configuration file",

		Annotations: map[string]string{runtime.SkipInitAnnotation: "true"},
	}

	configCmd.AddCommand(InitCommand())
	return configCmd
}

// InitCommand creates the subcommand that writes the default config file
func InitCommand() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",

		Annotations: map[string]string{runtime.SkipInitAnnotation: "true"},

		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				defaultPath, err := conf.DefaultConfigFile()
				if err != nil {
					return err
				}
				path = defaultPath
			}

			if err := conf.WriteDefaultConfig(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Destination file (default: user config directory)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
