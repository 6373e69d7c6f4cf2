package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/talbii/fractran/cmd"
)

func main() {
	app := cli.NewApp()
	app.Name = "fractran"
	app.Usage = "FRACTRAN interpreter"
	app.Description = "FRACTRAN interpreter: load a program and initial state, run it, and decode the registers of the halting state"
	app.Flags = []cli.Flag{
		cmd.LogLevelFlag,
	}
	app.Commands = []*cli.Command{
		cmd.LoadCommand,
		cmd.RunCommand,
		cmd.EvalCommand,
		cmd.DecodeCommand,
		cmd.WitnessCommand,
	}
	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for {
			<-c
			cancel()
			fmt.Println("\r\nExiting...")
		}
	}()

	err := app.RunContext(ctx, os.Args)
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			_, _ = fmt.Fprintf(os.Stderr, "command interrupted")
			os.Exit(130)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "error: %v", err)
			os.Exit(1)
		}
	}
}
