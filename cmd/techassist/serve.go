package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sandevgo/techassist/internal/config"
	"github.com/sandevgo/techassist/internal/transport/httpapi"
	"github.com/sandevgo/techassist/pkg/log"
	"github.com/sandevgo/techassist/pkg/srv"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the answer API over HTTP",
	Long:  `Starts the HTTP API used by the messaging integration. Waits for ChromaDB before accepting requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stdout)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting techassist")

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}

		if err := app.WaitForChroma(ctx); err != nil {
			app.Close()
			return err
		}

		httpCfg := config.NewHTTPConfig(ctx)
		var journal httpapi.ExchangeLister
		if app.Journal != nil {
			journal = app.Journal
		}
		server := httpapi.NewServer(httpCfg, app.Answerer, app.Chroma, journal)

		services := append([]srv.Service{}, app.Cleanup...)
		services = append(services, server)

		err = srv.Run(ctx, shutdownTimeout, services...)
		logger.Info().Msg("techassist has been shut down gracefully")
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
