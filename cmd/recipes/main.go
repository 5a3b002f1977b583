package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/idilsaglam/recipes/internal/cli"
)

var version = "dev"

func main() {
	// Root flags (apply to every subcommand)
	flags := pflag.NewFlagSet("recipes", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.Usage = cli.PrintHelp
	configPath := flags.String("config", "", "config file")
	flags.String("theme", "", "classic | neon | mono")
	flags.String("endpoint", "", "where recipes are posted")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, flags.Args(), cli.Options{
		ConfigPath: *configPath,
		Flags:      flags,
		Version:    version,
	})
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
