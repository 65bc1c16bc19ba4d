package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowshot/flowshot/commands"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a flow graph as a portable package",
	Long:  `Serializes a flow graph into a package directory with a flow.json document and one image asset per keyframe, optionally zipped.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.LoadGraphCommand(commands.GraphFileRequest{Path: graphFile})
		if response.Status == "error" {
			printJson(response)
			return fmt.Errorf("%s", response.Error)
		}

		response = commands.ExportCommand(commands.ExportRequest{
			OutputDir:   exportOutputDir,
			ProjectName: exportName,
			Format:      exportFormat,
			Zip:         exportZip,
		})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&graphFile, "graph", "g", "", "flow graph file to export")
	exportCmd.Flags().StringVarP(&exportOutputDir, "output", "o", "", "directory to write the package into")
	exportCmd.Flags().StringVarP(&exportName, "name", "n", "", "project name (default from config)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "asset image format (png, jpeg or webp)")
	exportCmd.Flags().BoolVar(&exportZip, "zip", false, "also produce a zip archive of the package")
	_ = exportCmd.MarkFlagRequired("graph")
	_ = exportCmd.MarkFlagRequired("output")
}
