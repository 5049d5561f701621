package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/techassist/internal/transport/mcp"
	"github.com/sandevgo/techassist/pkg/srv"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the assistant as an MCP stdio tool",
	Long:  `Runs an MCP server on stdin/stdout exposing the answer_question tool. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// stdout carries the protocol
		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stderr)
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}

		server := mcp.NewServer(app.Answerer, os.Stdin, os.Stdout)
		services := append([]srv.Service{}, app.Cleanup...)
		services = append(services, server)

		return srv.Run(ctx, shutdownTimeout, services...)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
