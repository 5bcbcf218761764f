package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/ppiankov/staycheck/internal/server"
	"github.com/ppiankov/staycheck/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// serveCmd runs the HTTP transport
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	Long: `Serve exposes the verification pipeline over HTTP:

  POST   /v1/chat            one verified turn
  DELETE /v1/sessions/:id    forget a stored conversation
  GET    /health             liveness
  GET    /metrics            Prometheus metrics

Example:
  staycheck serve --addr :9000
  STAYCHECK_SESSION_BACKEND=redis STAYCHECK_SESSION_REDIS_ADDR=localhost:6379 staycheck serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	store, err := session.New(a.cfg.Session)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("Starting staycheck server",
		zap.String("version", Version),
		zap.String("session_backend", a.cfg.Session.Backend),
		zap.Bool("metrics", a.cfg.Server.Metrics),
	)

	return server.New(a.pipeline, store, a.cfg.Server, a.logger, Version).Run(ctx)
}
