package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"kdenlive-mcp/internal/checkpoint"
	"kdenlive-mcp/internal/config"
	"kdenlive-mcp/internal/discovery"
	"kdenlive-mcp/internal/kdenlive"
	"kdenlive-mcp/internal/logging"
	mcpserver "kdenlive-mcp/internal/mcp"
	"kdenlive-mcp/internal/report"
	"kdenlive-mcp/internal/undo"
	"kdenlive-mcp/internal/workflow"
)

func main() {
	var (
		configPath string
		stdio      bool
	)

	root := &cobra.Command{
		Use:   "kdenlive-mcp",
		Short: "MCP server orchestrating a running Kdenlive instance over D-Bus",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, stdio)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVar(&configPath, "config", "", "path to config file")
	root.Flags().BoolVar(&stdio, "stdio", false, "serve MCP on stdin/stdout instead of HTTP")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string, stdio bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.Info("starting kdenlive-mcp",
		"dbus_service", cfg.Engine.DBusService,
		"import_settle", cfg.Engine.ImportSettle,
		"stdio", stdio,
	)

	client := kdenlive.NewDBusClient(kdenlive.Options{
		Service:        cfg.Engine.DBusService,
		Path:           cfg.Engine.DBusPath,
		CommandTimeout: cfg.Engine.CommandTimeout,
	}, logger)

	disc := discovery.New(client, cfg.Engine.ImportSettle, logger)
	workflows := workflow.NewService(client, disc, workflow.Options{
		InsertSettle:        cfg.Engine.InsertSettle,
		DefaultClipDuration: cfg.Engine.DefaultClipDuration,
		DefaultTransition:   cfg.Engine.DefaultTransition,
	}, logger)
	ckpt := checkpoint.NewManager(client, checkpoint.NewMemoryRegistry(), logger)
	reporter := undo.NewReporter(client)
	insp := report.NewInspector(client, cfg.Engine.FPS)

	srv := mcpserver.NewServer(workflows, ckpt, reporter, insp, client)
	logger.Info("MCP tool surface registered")

	if stdio {
		return srv.ServeStdio()
	}
	return serveHTTP(cfg, logger, srv)
}

func serveHTTP(cfg *config.Config, logger *logging.Logger, srv *mcpserver.Server) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	// Recover converts any residual panic into a 500 instead of taking
	// the session down with it.
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("kdenlive-mcp"))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mcpHandlers := http.NewServeMux()
	mcpserver.MountHTTPHandlers(mcpHandlers, srv.GetMCPServer())
	e.Any("/mcp", echo.WrapHandler(mcpHandlers))
	e.Any("/mcp/*", echo.WrapHandler(mcpHandlers))

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("server close error", "error", err)
			}
		}
		logger.Info("server stopped gracefully")
	}
	return nil
}
