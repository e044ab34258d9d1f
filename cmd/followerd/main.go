// Command followerd runs a leader-side Follower Channel process: it opens
// a durable WAL, wires one FollowerChannel per configured peer, and serves
// Prometheus metrics at /metrics on the bind address until it is signalled
// to stop. It does not serve AppendLog/AskForVote RPCs itself.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	configPath string
	bindAddr   string
	walPath    string
)

func init() {
	viper.SetEnvPrefix("FOLLOWERD")

	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a followerd TOML config file")
	rootCmd.Flags().StringVar(&bindAddr, "bind-address", "", "override the configured bind address")
	rootCmd.Flags().StringVar(&walPath, "wal-path", "", "override the configured wal path")

	viper.BindEnv("CONFIG_PATH")
	if v := viper.GetString("CONFIG_PATH"); v != "" && configPath == "" {
		configPath = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "followerd",
	Short: "leader-side follower replication channel daemon",
	RunE:  runE,
}

// Execute runs the followerd root command.
func Execute() error {
	return rootCmd.Execute()
}
