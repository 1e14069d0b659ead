package locate

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/geo"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/runtime"
)

const longHelp = `Print the approximate locality of a coordinate.

Use "--" before negative coordinates: ecotachos locate -- -2.90 -79.00`

// Command creates the locate command, which prints the approximate locality
// of a coordinate pair.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "locate LAT LON",
		Short: "Print the approximate locality of a coordinate",
		Long:  longHelp,
		Args:  cobra.ExactArgs(2),

		Annotations: map[string]string{runtime.SkipInitAnnotation: "true"},

		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.ValidationError("locate", fmt.Sprintf("invalid latitude %q", args[0]))
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return errors.ValidationError("locate", fmt.Sprintf("invalid longitude %q", args[1]))
			}

			fmt.Fprintln(cmd.OutOrStdout(), geo.ApproximateLocality(lat, lon))
			return nil
		},
	}
}
