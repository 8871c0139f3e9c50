package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scenestack/scenestack/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive scene session",
	Long:  `Starts an interactive terminal session driving the scene stack from the configuration file.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd)
		if !cmd.Flags().Changed("config") && len(args) > 0 {
			opts.ConfigPath = args[0]
		}
		opts.Initial, _ = cmd.Flags().GetString("initial")

		if err := cli.RunSession(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func optionsFromFlags(cmd *cobra.Command) cli.RunOptions {
	config, _ := cmd.Flags().GetString("config")
	redisAddr, _ := cmd.Flags().GetString("redis")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.RunOptions{
		ConfigPath: config,
		RedisAddr:  redisAddr,
		Debug:      debug,
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("initial", "", "Scene to enter first (default: first scene in the config)")

	rootCmd.Run = runCmd.Run
}
