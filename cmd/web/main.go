// Package main is the entrypoint of the DobosDev site server. It wires the
// serve, routes and content subcommands, loads configuration and sets up logging.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dobosdev.hu/web/internal/config"
	"dobosdev.hu/web/internal/logging"
)

// env carries what every subcommand needs once the root command ran.
type env struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func (e *env) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("could not build logger: %w", err)
	}
	e.cfg = cfg
	e.logger = logger
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	return nil
}

func (e *env) sync() {
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

func newRootCommand() (*cobra.Command, *env) {
	e := &env{}
	rootCmd := &cobra.Command{
		Use:               "web",
		Short:             "DobosDev site server",
		SilenceUsage:      true,
		PersistentPreRunE: e.load,
	}
	rootCmd.PersistentFlags().StringVarP(&e.configPath, "config", "c", "config.yml", "config file path; missing file means environment only")

	serve := serveCommand(e)
	rootCmd.RunE = serve.RunE
	rootCmd.AddCommand(
		serve,
		routesCommand(),
		contentCommand(e),
	)
	return rootCmd, e
}

func main() {
	rootCmd, e := newRootCommand()
	err := rootCmd.ExecuteContext(context.Background())
	e.sync()
	if err != nil {
		os.Exit(1)
	}
}
