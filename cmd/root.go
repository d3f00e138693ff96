package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "contentpilot",
	Short: "Multi-tenant AI content generation backend",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
