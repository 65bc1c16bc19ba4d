package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowshot/flowshot/commands"
)

// loadGraphFile pulls an existing graph file into the editor; a missing file
// leaves the fresh graph in place.
func loadGraphFile(path string) {
	if path == "" {
		return
	}
	response := commands.LoadGraphCommand(commands.GraphFileRequest{Path: path})
	if response.Status == "error" {
		// first run, nothing to load yet
		return
	}
}

func saveGraphFile(path string) error {
	if path == "" {
		return nil
	}
	response := commands.SaveGraphCommand(commands.GraphFileRequest{Path: path})
	if response.Status == "error" {
		return fmt.Errorf("%s", response.Error)
	}
	return nil
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a keyframe from a recording",
	Long:  `Extracts a single frame at the given timestamp from a frame-sequence recording directory and writes it as an image.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadGraphFile(graphFile)

		response := commands.ExtractFrameCommand(commands.ExtractFrameRequest{
			SourceDir:   extractSource,
			TimestampMs: extractAt,
			Label:       extractLabel,
			Format:      extractFormat,
			Quality:     extractQuality,
			MaxWidth:    extractMaxWidth,
			MaxHeight:   extractMaxHeight,
			AddToGraph:  graphFile != "",
			OutputPath:  extractOutput,
		})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}

		return saveGraphFile(graphFile)
	},
}

var extractClicksCmd = &cobra.Command{
	Use:   "clicks",
	Short: "Extract one keyframe per recorded click",
	Long:  `Reads a tracking session file, extracts a keyframe at every click timestamp and adds the results to the flow graph. Seek failures are reported per click and do not abort the batch.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadGraphFile(graphFile)

		response := commands.ExtractClicksCommand(commands.ExtractClicksRequest{
			SourceDir:  extractSource,
			TrackFile:  extractTrackFile,
			Format:     extractFormat,
			Quality:    extractQuality,
			MaxWidth:   extractMaxWidth,
			MaxHeight:  extractMaxHeight,
			AutoLayout: autoLayout,
		})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}

		return saveGraphFile(graphFile)
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe <recording.mp4>",
	Short: "Inspect an MP4 recording",
	Long:  `Reads MP4 track metadata (duration, dimensions, codec) without decoding frames.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.ProbeCommand(commands.ProbeRequest{Path: args[0]})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(probeCmd)
	extractCmd.AddCommand(extractClicksCmd)

	extractCmd.PersistentFlags().StringVarP(&extractSource, "source", "s", "", "recording frame-sequence directory")
	extractCmd.PersistentFlags().StringVarP(&extractFormat, "format", "f", "", "image format (png, jpeg or webp)")
	extractCmd.PersistentFlags().IntVarP(&extractQuality, "quality", "q", 0, "quality for lossy formats (1-100)")
	extractCmd.PersistentFlags().IntVar(&extractMaxWidth, "max-width", 0, "downscale frames wider than this")
	extractCmd.PersistentFlags().IntVar(&extractMaxHeight, "max-height", 0, "downscale frames taller than this")
	extractCmd.PersistentFlags().StringVarP(&graphFile, "graph", "g", "", "flow graph file to add keyframes to")
	_ = extractCmd.MarkPersistentFlagRequired("source")

	extractCmd.Flags().Int64Var(&extractAt, "at", 0, "timestamp in milliseconds")
	extractCmd.Flags().StringVarP(&extractLabel, "label", "l", "", "label for the extracted keyframe")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "image output path, '-' for base64 on stdout")

	extractClicksCmd.Flags().StringVarP(&extractTrackFile, "track", "t", "", "track data file from a recording session")
	extractClicksCmd.Flags().BoolVar(&autoLayout, "auto-layout", false, "arrange keyframes on the grid after extraction")
	_ = extractClicksCmd.MarkFlagRequired("track")
}
