// Package main implements the MCP server for the Bear note-taking app.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taigrr/bear-mcp/internal/actions"
	"github.com/taigrr/bear-mcp/internal/callback"
	"github.com/taigrr/bear-mcp/internal/config"
	"github.com/taigrr/bear-mcp/internal/dispatcher"
	"github.com/taigrr/bear-mcp/internal/logging"
	"github.com/taigrr/bear-mcp/internal/opener"
)

var actionDispatcher *dispatcher.Dispatcher

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "bear-mcp",
		Short: "MCP bridge for Bear notes",
		Long: `bear-mcp is a Model Context Protocol (MCP) server that exposes
the Bear x-callback-url API as MCP tools. It opens bear:// URLs
on the local machine and listens on a loopback HTTP port for
Bear's x-success and x-error callbacks, so any MCP-compatible
AI harness can search, read and write Bear notes.`,
		Example: `bear-mcp --token $BEAR_API_TOKEN
bear-mcp token set 1A2B3C-4D5E6F-7A8B9C`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, v)
		},
	}
	config.RegisterFlags(cmd.Flags())
	cmd.AddCommand(newTokenCmd())
	return cmd
}

func newServer(catalog *actions.Catalog) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    config.AppName,
		Version: version,
	}, nil)
	registerTools(server, catalog)
	return server
}

func runServer(cmd *cobra.Command, v *viper.Viper) error {
	if err := config.Bind(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	catalog, err := actions.Load()
	if err != nil {
		return fmt.Errorf("failed to load action catalog: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opts := dispatcher.Options{
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
		Quiet:   cfg.Quiet,
		Logger:  logger,
	}

	var served chan error
	if cfg.Callbacks {
		cb := callback.New(cfg.CallbackHost, cfg.CallbackPort, logger)
		if err := cb.Listen(); err != nil {
			return fmt.Errorf("failed to start callback server: %w", err)
		}
		served = make(chan error, 1)
		go func() { served <- cb.Serve(ctx) }()
		opts.Callbacks = cb
	}

	actionDispatcher, err = dispatcher.New(catalog, opener.Default(), opts)
	if err != nil {
		return err
	}

	if cfg.File != "" {
		logger.Debug("loaded config file", "path", cfg.File)
	}
	logger.Info("starting MCP server", "version", version, "actions", len(catalog.Actions()), "callbacks", cfg.Callbacks)

	runErr := newServer(catalog).Run(ctx, &mcp.StdioTransport{})
	cancel()
	if served != nil {
		if err := <-served; err != nil {
			logger.Error("callback server stopped", "err", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("error running server: %w", runErr)
	}
	return nil
}
