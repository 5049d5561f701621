package srv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/techassist/pkg/log"
)

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Run starts every service in its own goroutine and blocks until ctx is
// cancelled or any service's Start returns. A nil return ends the run
// normally. Services are then shut down in reverse order, each call bounded
// by timeout.
func Run(ctx context.Context, timeout time.Duration, services ...Service) error {
	logger := log.FromCtx(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(services))
	for _, service := range services {
		go func(service Service) {
			err := service.Start(runCtx)
			if err != nil {
				err = fmt.Errorf("%T: %w", service, err)
			}
			errCh <- err
		}(service)
	}

	var runErr error
	select {
	case <-runCtx.Done():
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error().Err(runErr).Msg("Service failed")
		} else {
			logger.Info().Msg("Service stopped, shutting down")
		}
	}
	cancel()

	var errs []error
	for i := len(services) - 1; i >= 0; i-- {
		shutdownCtx, done := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		if err := services[i].Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", services[i])
			errs = append(errs, err)
		}
		done()
	}

	if runErr != nil {
		return runErr
	}
	return errors.Join(errs...)
}
