package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowshot/flowshot/commands"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Flow graph commands",
	Long:  `Commands for inspecting and editing a saved flow graph file.`,
}

var graphShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a flow graph",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.LoadGraphCommand(commands.GraphFileRequest{Path: graphFile})
		if response.Status == "error" {
			printJson(response)
			return fmt.Errorf("%s", response.Error)
		}
		response = commands.GraphCommand()
		printJson(response)
		return nil
	},
}

var graphLayoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Auto-arrange keyframes on the grid",
	Long:  `Places keyframes on a timestamp-ordered grid and connects consecutive keyframes into a chain. Existing connections are kept.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.LoadGraphCommand(commands.GraphFileRequest{Path: graphFile})
		if response.Status == "error" {
			printJson(response)
			return fmt.Errorf("%s", response.Error)
		}

		response = commands.AutoLayoutCommand()
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}

		return saveGraphFile(graphFile)
	},
}

var graphConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect two nodes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.LoadGraphCommand(commands.GraphFileRequest{Path: graphFile})
		if response.Status == "error" {
			printJson(response)
			return fmt.Errorf("%s", response.Error)
		}

		response = commands.AddConnectionCommand(commands.AddConnectionRequest{
			From:  connectFrom,
			To:    connectTo,
			Label: connectLabel,
		})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}

		return saveGraphFile(graphFile)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.AddCommand(graphShowCmd)
	graphCmd.AddCommand(graphLayoutCmd)
	graphCmd.AddCommand(graphConnectCmd)

	graphCmd.PersistentFlags().StringVarP(&graphFile, "graph", "g", "", "flow graph file")
	_ = graphCmd.MarkPersistentFlagRequired("graph")

	graphConnectCmd.Flags().StringVar(&connectFrom, "from", "", "source node id")
	graphConnectCmd.Flags().StringVar(&connectTo, "to", "", "target node id")
	graphConnectCmd.Flags().StringVarP(&connectLabel, "label", "l", "", "connection label")
	_ = graphConnectCmd.MarkFlagRequired("from")
	_ = graphConnectCmd.MarkFlagRequired("to")
}
