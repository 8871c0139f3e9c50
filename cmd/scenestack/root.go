package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scenestack",
	Short: "scenestack is a stack-based scene state machine",
	Long:  `scenestack drives application flow as a stack of scenes with declarative visibility, scoped listeners, and managed resources.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "scenes.yaml", "Scene configuration file")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for transition history (empty = in memory)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
