package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flowshot/flowshot/commands"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Record mouse clicks over a screen region",
	Long:  `Starts a tracking session over the given recording bounds and records normalized click positions until interrupted (Ctrl-C). The session snapshot is printed and optionally saved.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bounds, err := parseBounds(trackBounds)
		if err != nil {
			return err
		}

		response := commands.StartTrackingCommand(bounds)
		if response.Status == "error" {
			printJson(response)
			return fmt.Errorf("%s", response.Error)
		}

		fmt.Fprintln(os.Stderr, "Tracking clicks, press Ctrl-C to stop...")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		response = commands.StopTrackingCommand(commands.StopTrackingRequest{
			OutputPath: trackOutput,
		})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

// parseBounds reads "x,y,width,height" in screen coordinates.
func parseBounds(s string) (commands.StartTrackingRequest, error) {
	var req commands.StartTrackingRequest

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return req, fmt.Errorf("invalid bounds '%s', expected x,y,width,height", s)
	}

	values := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return req, fmt.Errorf("invalid bounds component '%s': %v", part, err)
		}
		values[i] = v
	}

	req.X, req.Y, req.Width, req.Height = values[0], values[1], values[2], values[3]
	return req, nil
}

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().StringVarP(&trackBounds, "bounds", "b", "", "recording bounds as x,y,width,height in screen coordinates")
	trackCmd.Flags().StringVarP(&trackOutput, "output", "o", "", "file to save the recorded track data to")
	_ = trackCmd.MarkFlagRequired("bounds")
}
