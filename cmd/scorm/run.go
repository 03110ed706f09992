package main

import (
	"os"
	"strings"

	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/internal/cli"
	"github.com/aretw0/scorm/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Replay a scripted sequence of API calls",
	Long: `Creates a session, hydrates it with the script's data and replays its calls,
checking the optional expected result and error code of each step.
Exits non-zero when an expectation fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		jsonOut, _ := cmd.Flags().GetBool("json")
		variant, _ := cmd.Flags().GetString("variant")
		sessionID, _ := cmd.Flags().GetString("session")

		if !jsonOut {
			tui.PrintBanner(os.Stdout, strings.TrimSpace(scorm.Version))
		}

		return cli.Execute(cmd.Context(), cli.RunOptions{
			ScriptPath: args[0],
			ConfigPath: configPath,
			Variant:    variant,
			SessionID:  sessionID,
			JSON:       jsonOut,
			Debug:      debug,
		}, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("json", false, "Print the report as JSON")
	runCmd.Flags().String("variant", "", "Override the variant of the script and the config")
	runCmd.Flags().String("session", "", "Override the session ID of the script")
}
