package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/scorm/pkg/config"
	"github.com/spf13/cobra"
)

var commitsCmd = &cobra.Command{
	Use:   "commits",
	Short: "Manage persisted commits",
	Long:  `List, inspect, and remove the commit records of the configured store.`,
}

func openBackend(cmd *cobra.Command) *config.Backend {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	b, err := cfg.OpenStore()
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}
	return b
}

var commitsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the sessions with a commit",
	Run: func(cmd *cobra.Command, args []string) {
		b := openBackend(cmd)
		defer b.Close()

		ids, err := b.Store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing commits: %v\n", err)
			os.Exit(1)
		}

		if len(ids) == 0 {
			fmt.Println("No commits found.")
			return
		}

		fmt.Println("Commits:")
		for _, id := range ids {
			fmt.Println("- " + id)
		}
	},
}

var commitsInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the latest commit of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		b := openBackend(cmd)
		defer b.Close()

		rec, err := b.Store.Load(cmd.Context(), sessionID)
		if err != nil {
			fmt.Printf("Error loading commit '%s': %v\n", sessionID, err)
			os.Exit(1)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling commit: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var commitsRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove the commits of one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		b := openBackend(cmd)
		defer b.Close()
		hasError := false

		for _, sessionID := range args {
			if err := b.Store.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed commit '%s'\n", sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(commitsCmd)
	commitsCmd.AddCommand(commitsLsCmd)
	commitsCmd.AddCommand(commitsInspectCmd)
	commitsCmd.AddCommand(commitsRmCmd)
}
