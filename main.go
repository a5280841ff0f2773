package main

import (
	"context"
	"fmt"
	"os"

	"fjacquet/fintrack/cmd/correct"
	"fjacquet/fintrack/cmd/importcmd"
	"fjacquet/fintrack/cmd/predict"
	"fjacquet/fintrack/cmd/root"
	"fjacquet/fintrack/cmd/serve"
	"fjacquet/fintrack/cmd/stats"
	"fjacquet/fintrack/cmd/train"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(train.Cmd)
	root.Cmd.AddCommand(predict.Cmd)
	root.Cmd.AddCommand(correct.Cmd)
	root.Cmd.AddCommand(stats.Cmd)
	root.Cmd.AddCommand(importcmd.Cmd)
}

func main() {
	if err := root.Cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
