package main

import (
	"os"

	"flok.dev/flok/internal/cli"
	"flok.dev/flok/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd(version, commit, date)
	err := rootCmd.Execute()

	log := output.NewSplog()
	os.Exit(cli.HandleError(log, err))
}
