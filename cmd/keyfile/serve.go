package main

import (
	"context"
	"net"
	"os/signal"
	"syscall"

	"github.com/eternalApril/keyfile/internal/server"
	"github.com/eternalApril/keyfile/internal/storage"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured settings file over the Redis protocol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	log := c.log

	log.Info("keyfile starting",
		zap.String("file", c.cfg.Store.File),
		zap.String("port", c.cfg.Server.Port),
	)

	store := storage.New(log)
	engine := server.NewEngine(store, c.cfg.Store.File, log)
	if err := engine.Reload(); err != nil {
		return errors.Wrap(err, "unable to load settings")
	}

	var watcher *server.Watcher
	if c.cfg.Store.Watch {
		watcher = server.NewWatcher(c.cfg.Store.File, engine.ReloadChanged, log)
		if err := watcher.Start(ctx); err != nil {
			return errors.Wrap(err, "unable to watch settings file")
		}
	}

	address := net.JoinHostPort(c.cfg.Server.Host, c.cfg.Server.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "unable to listen on %s", address)
	}

	srv := server.New(engine, c.cfg.Server.ShutdownTimeout, log)
	if err := srv.Serve(ctx, listener); err != nil {
		return err
	}

	log.Info("shutting down...")

	if watcher != nil {
		<-watcher.Done()
	}

	if c.cfg.Store.SaveOnExit {
		if err := engine.Save(); err != nil {
			return errors.Wrap(err, "unable to save settings on exit")
		}
	}

	log.Info("keyfile stopped")
	return nil
}
