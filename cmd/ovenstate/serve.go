package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/ovenstate/internal/server"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as an MCP server over stdin/stdout",
		Long: `serve speaks JSON-RPC 2.0 (Model Context Protocol) on stdin/stdout and
exposes the image_load, oven_status and oven_stage_preview tools.
Configure it as a stdio server in your MCP client.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, logger, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			logger.Info("main: serving MCP on stdio", "version", Version)
			return server.New(p, logger, Version).Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
