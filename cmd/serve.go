package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/chrisdamba/vendorcast/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the prediction form, JSON API and metrics over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := web.NewServer(a.pred, a.cfg.Server,
			web.WithDefaults(a.cfg.Defaults),
			web.WithPrompts(a.prompts),
			web.WithLogger(a.logger))

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Listen(a.cfg.Server.Addr) }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			a.logger.Info("shutting down web server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("web server shutdown", zap.Error(err))
				return err
			}
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", ":3000", "listen address")
	v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}
