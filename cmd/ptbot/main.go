package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ptmcplay/ptbot/internal/config"
)

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:   "ptbot",
		Short: "Telegram bot that downloads and delivers media from video platforms",
		Run: func(_ *cobra.Command, _ []string) {
			runServe(cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigPath, "path to config.toml")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
