package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Erick5933/ecotachostec-mobile-sub000/cmd/config"
	"github.com/Erick5933/ecotachostec-mobile-sub000/cmd/deactivate"
	"github.com/Erick5933/ecotachostec-mobile-sub000/cmd/locate"
	"github.com/Erick5933/ecotachostec-mobile-sub000/cmd/nearby"
	"github.com/Erick5933/ecotachostec-mobile-sub000/cmd/stats"
	"github.com/Erick5933/ecotachostec-mobile-sub000/cmd/submit"
	"github.com/Erick5933/ecotachostec-mobile-sub000/cmd/watch"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/runtime"
)

// RootCommand creates and returns the root command
func RootCommand(rt *runtime.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ecotachos",
		Short:         "EcoTachos detection and container analytics",
		Version:       rt.Version,
		SilenceUsage:  true,
	}

	// Set up the global flags for the root command.
	rootCmd.PersistentFlags().StringVarP(&rt.ConfigFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&rt.Debug, "debug", "d", false, "Enable debug output")

	rootCmd.AddCommand(
		stats.Command(rt),
		nearby.Command(rt),
		locate.Command(),
		submit.Command(rt),
		deactivate.Command(rt),
		watch.Command(rt),
		config.Command(),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that work without settings
		if cmd.Annotations[runtime.SkipInitAnnotation] == "true" {
			return nil
		}
		return rt.Init()
	}

	return rootCmd
}
