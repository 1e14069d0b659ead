package deactivate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/backend"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/runtime"
)

// Command creates the deactivate command, which soft-deletes a container or
// a detection.
func Command(rt *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate tacho|deteccion ID",
		Short: "Soft-delete a container or a detection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := ParseResource(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[1])
			if err != nil || id <= 0 {
				return errors.ValidationError("deactivate", fmt.Sprintf("invalid id %q", args[1]))
			}

			client, err := rt.Backend()
			if err != nil {
				return err
			}
			if err := client.Deactivate(cmd.Context(), resource, id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated %s %d\n", resource, id)
			return nil
		},
	}
}

// ParseResource maps a command line name to a backend resource.
func ParseResource(name string) (backend.Resource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tacho", "tachos", "container", "containers":
		return backend.ResourceContainers, nil
	case "deteccion", "detección", "detecciones", "detection", "detections":
		return backend.ResourceDetections, nil
	default:
		return "", errors.ValidationError("deactivate", fmt.Sprintf("unknown resource %q, expected tacho or deteccion", name))
	}
}
