package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbar/internal/preview"
	"github.com/goliatone/go-formbar/pkg/render"
)

type serveFlags struct {
	addr  string
	watch bool
	csrf  string
	theme themeFlags
}

func newServeCmd(globals *globalFlags) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the configured forms over HTTP",
		Long:  "Serves every form of the configuration at /forms/<id>, reloading the configuration when it changes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, globals, flags)
		},
	}
	cmd.Flags().StringVar(&flags.addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().BoolVar(&flags.watch, "watch", true, "Reload the configuration when the file changes")
	cmd.Flags().StringVar(&flags.csrf, "csrf-token", "", "Emit a hidden csrf_token input with this value")
	flags.theme.register(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, globals *globalFlags, flags *serveFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := preview.NewStore(globals.configPath, globals.logger)
	if err != nil {
		return err
	}
	if flags.watch {
		if err := store.Watch(ctx); err != nil {
			return err
		}
	}

	themeOptions, err := flags.theme.options()
	if err != nil {
		return err
	}
	options := []preview.Option{
		preview.WithLogger(globals.logger),
		preview.WithOrchestratorOptions(themeOptions...),
	}
	if flags.csrf != "" {
		options = append(options, preview.WithHiddenFields(render.CSRFToken("csrf_token", flags.csrf)))
	}
	server, err := preview.New(store, options...)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              flags.addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		globals.logger.Info("serving forms", "addr", flags.addr, "config", store.Path())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
