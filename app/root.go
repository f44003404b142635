// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studyhive",
	Short: "StudyHive is a collaboration service for study groups",
	Long: `StudyHive is a collaboration service for study groups that lets
users create and join groups, rate and like them, share one video session
per group and discuss questions in a group forum.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
