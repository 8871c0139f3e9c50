package main

import (
	"fmt"
	"strings"

	scenestack "github.com/scenestack/scenestack"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scenestack",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scenestack version %s\n", strings.TrimSpace(scenestack.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
