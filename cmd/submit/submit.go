package submit

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/runtime"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/submission"
)

// Command creates the submit command, which uploads a classified image as a
// new detection.
func Command(rt *runtime.Context) *cobra.Command {
	var (
		containerID int
		imagePath   string
		label       string
		confidence  string
		userID      int
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Register a detection for a container",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			image, err := os.ReadFile(imagePath)
			if err != nil {
				return errors.New(err).
					Component("submit").
					Category(errors.CategoryFileIO).
					Context("path", imagePath).
					Build()
			}

			client, err := rt.Backend()
			if err != nil {
				return err
			}
			raw, err := client.ListContainers(ctx)
			if err != nil {
				return err
			}
			container := FindContainer(record.NormalizeContainers(raw), containerID)
			if container == nil {
				return errors.Newf("container %d not found", containerID).
					Component("submit").
					Category(errors.CategoryNotFound).
					Build()
			}

			wf, err := rt.Workflow()
			if err != nil {
				return err
			}
			result, err := wf.Submit(ctx, submission.Request{
				Container:      container,
				Image:          image,
				Classification: label,
				Confidence:     confidence,
				UserID:         rt.ResolveUserID(userID, cmd.Flags().Changed("user")),
			})
			if err != nil {
				if result != nil && result.Message != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), result.Message)
				}
				return err
			}

			p := result.Payload
			fmt.Fprintf(cmd.OutOrStdout(), "Detection registered: container %d, %s, %.2f%%", p.ContainerID, p.Category, p.ConfidencePercent)
			if id, ok := result.Created["id"]; ok {
				fmt.Fprintf(cmd.OutOrStdout(), " (id %v)", id)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().IntVar(&containerID, "container", 0, "Container id")
	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to the captured image")
	cmd.Flags().StringVarP(&label, "label", "l", "", "Classification label")
	cmd.Flags().StringVar(&confidence, "confidence", "", "Classifier confidence, fraction or percentage")
	cmd.Flags().IntVarP(&userID, "user", "u", 0, "Current user id, overrides user.id (0 for none)")
	_ = cmd.MarkFlagRequired("container")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

// FindContainer returns the container with the given id, nil when absent.
func FindContainer(containers []record.ContainerRecord, id int) *record.ContainerRecord {
	for i := range containers {
		if containers[i].ID == id {
			return &containers[i]
		}
	}
	return nil
}
