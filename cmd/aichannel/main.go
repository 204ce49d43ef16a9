// Package main is the entry point for the aichannel bot.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aichannel/pkg/version"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "aichannel",
	Short: "aichannel - relay a Discord channel to an AI chat model",
	Long: `aichannel connects to Discord and answers every message posted in a
server's designated AI chat channel using a chat completion API.

Administrators choose the channel with /setchannel and clear it with
/removechannel. Running without a subcommand starts the bot in the foreground.`,
	SilenceUsage: true,
	RunE:         runForeground,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot in the foreground or as a service",
	Long:  `Run the bot. When installed as a service, this is called automatically.`,
	RunE:  runRun,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serviceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
