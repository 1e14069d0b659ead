package stats

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/analytics"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/ownership"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/runtime"
)

// Command creates the stats command, which loads containers and detections
// and prints the per-group summaries.
func Command(rt *runtime.Context) *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print detection statistics per ownership group",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := rt.Loader()
			if err != nil {
				return err
			}

			snap, err := loader.Load(cmd.Context(), rt.ResolveUserID(userID, cmd.Flags().Changed("user")))
			if err != nil {
				return err
			}

			Print(cmd.OutOrStdout(), snap)
			return nil
		},
	}

	cmd.Flags().IntVarP(&userID, "user", "u", 0, "Current user id, overrides user.id (0 for none)")

	return cmd
}

// Print writes a snapshot as a plain text report.
func Print(w io.Writer, snap *analytics.Snapshot) {
	cs := snap.ContainerStats
	fmt.Fprintf(w, "Containers: %d (active %d, maintenance %d, out of service %d)\n",
		cs.Total, cs.Active, cs.Maintenance, cs.OutOfService)
	if snap.DroppedContainers > 0 || snap.DroppedDetections > 0 {
		fmt.Fprintf(w, "Skipped records: %d containers, %d detections\n", snap.DroppedContainers, snap.DroppedDetections)
	}

	for _, g := range []ownership.Group{ownership.GroupPersonal, ownership.GroupCompany, ownership.GroupPublic} {
		s := snap.Summary(g)
		fmt.Fprintf(w, "\n%s: %d detections, average confidence %.1f%%\n", g, s.Total, s.AverageConfidence)

		counts := s.WithAllCategories()
		for _, c := range record.AllCategories {
			fmt.Fprintf(w, "  %-11s %d\n", c, counts[c])
		}
	}
}
