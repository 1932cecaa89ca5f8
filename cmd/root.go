package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/hcengineering/huly-coder/internal/app"
)

var (
	skipLoadMessages bool
	workspaceFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "huly-coder",
	Short: "Autonomous terminal coding agent",
	Long:  `huly-coder is an autonomous coding agent that works on tasks in your workspace through a terminal UI.`,
	Run: func(cmd *cobra.Command, args []string) {
		application, err := app.NewApplication(app.Options{
			SkipLoadMessages: skipLoadMessages,
			Workspace:        workspaceFlag,
		})
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&skipLoadMessages, "skip-load-messages", false, "start with an empty conversation instead of the persisted history")
	rootCmd.Flags().StringVar(&workspaceFlag, "workspace", "", "workspace directory (overrides the configured one)")
	rootCmd.AddCommand(profileCmd)
}
