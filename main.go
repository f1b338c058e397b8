// Package main provides the entry point for the statement-import CLI application.
package main

import (
	"fmt"
	"os"

	"fjacquet/statement-import/cmd/batch"
	"fjacquet/statement-import/cmd/categorize"
	"fjacquet/statement-import/cmd/confirm"
	"fjacquet/statement-import/cmd/detect"
	"fjacquet/statement-import/cmd/history"
	"fjacquet/statement-import/cmd/preview"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/cmd/stage"
	"fjacquet/statement-import/internal/config"
)

func init() {
	// .env values must be visible before viper reads the environment
	config.LoadEnv()

	root.Init()

	root.Cmd.AddCommand(detect.Cmd)
	root.Cmd.AddCommand(stage.Cmd)
	root.Cmd.AddCommand(preview.Cmd)
	root.Cmd.AddCommand(confirm.Cmd)
	root.Cmd.AddCommand(history.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
