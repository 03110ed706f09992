package main

import (
	"fmt"
	"os"

	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/internal/logging"
	"github.com/aretw0/scorm/internal/presentation/graph"
	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/registry"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <variant>",
	Short: "Export the data model visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of a variant's data model tree.
With --data, the tree is hydrated from a JSON file and initialized leaves are highlighted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dataPath, _ := cmd.Flags().GetString("data")
		current, _ := cmd.Flags().GetString("current")

		variant, err := registry.Default().Lookup(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		sess, err := scorm.New(variant, scorm.WithLogger(logging.NewNop()))
		if err != nil {
			fmt.Printf("Error creating session: %v\n", err)
			os.Exit(1)
		}

		var overlay *graph.Overlay
		if dataPath != "" {
			raw, err := os.ReadFile(dataPath)
			if err != nil {
				fmt.Printf("Error reading data: %v\n", err)
				os.Exit(1)
			}
			if err := sess.LoadJSON(raw, ""); err != nil {
				fmt.Printf("Error loading data: %v\n", err)
				os.Exit(1)
			}
			overlay = &graph.Overlay{Initialized: true}
		}
		if current != "" {
			if overlay == nil {
				overlay = &graph.Overlay{}
			}
			overlay.Current = current
		}

		// Generate and print Mermaid graph
		var output string
		sess.Inspect(func(tree *cmi.Composite) {
			output = graph.GenerateMermaid(tree, overlay)
		})
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("data", "", "JSON file to hydrate the data model with")
	graphCmd.Flags().String("current", "", "Element path to emphasize, e.g. cmi.core.lesson_status")
}
