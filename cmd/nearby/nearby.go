package nearby

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/geo"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/proximity"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/runtime"
)

// Command creates the nearby command, which lists active public containers
// around a position.
func Command(rt *runtime.Context) *cobra.Command {
	var lat, lon, radius float64

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List active public containers near a position",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			var user record.GeoPoint
			switch {
			case flags.Changed("lat") && flags.Changed("lon"):
				p, ok := record.NewGeoPoint(lat, lon)
				if !ok {
					return errors.ValidationError("nearby", fmt.Sprintf("invalid position %v,%v", lat, lon))
				}
				user = *p
			case rt.LocationProvider() != nil:
				p, err := rt.LocationProvider().CurrentLocation(cmd.Context())
				if err != nil {
					return err
				}
				user = p
			default:
				return errors.ValidationError("nearby", "no position: pass --lat and --lon or enable location in the config")
			}

			if !flags.Changed("radius") {
				radius = rt.Settings.Proximity.RadiusKm
			}

			client, err := rt.Backend()
			if err != nil {
				return err
			}
			raw, err := client.ListContainers(cmd.Context())
			if err != nil {
				return err
			}

			candidates := proximity.ActivePublic(record.NormalizeContainers(raw))
			Print(cmd.OutOrStdout(), proximity.Nearby(user, candidates, radius), radius)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude of the search position")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude of the search position")
	cmd.Flags().Float64VarP(&radius, "radius", "r", 0, "Search radius in km (default: proximity.radiuskm)")
	cmd.MarkFlagsRequiredTogether("lat", "lon")

	return cmd
}

// Print writes nearby containers one per line, nearest first.
func Print(w io.Writer, results []proximity.Result, radiusKm float64) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No active public containers within %.2f km\n", radiusKm)
		return
	}

	for _, r := range results {
		name := r.Container.Name
		if name == "" {
			name = record.Placeholder
		}
		fmt.Fprintf(w, "%6d  %-24s %6.2f km  %s\n", r.Container.ID, name, r.DistanceKm, geo.LocalityOf(r.Container.Location))
	}
}
