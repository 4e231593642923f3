// v1
// cmd/ecoagentd/main.go
// EcoAgent backend: budget-aware hierarchical campus analysis behind a thin
// HTTP surface.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"

	"github.com/krish12388/EcoAgent/internal/api"
	"github.com/krish12388/EcoAgent/internal/config"
	"github.com/krish12388/EcoAgent/internal/logging"
	"github.com/krish12388/EcoAgent/internal/pipeline"
	"github.com/krish12388/EcoAgent/internal/publish"
	"github.com/krish12388/EcoAgent/internal/reasoning"
	"github.com/krish12388/EcoAgent/internal/simulate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	lg := logging.New(cfg.LogPath)

	var engine reasoning.Engine
	if cfg.ReasoningURL != "" {
		breaker := reasoning.NewBreaker("reasoning", cfg.BreakerFailures, cfg.BreakerReset, lg)
		engine = reasoning.NewClient(cfg.ReasoningURL, cfg.ReasoningModel, cfg.ReasoningAPIKey, cfg.ReasoningTimeout, breaker, lg)
		lg.Info("reasoning service configured", "url", cfg.ReasoningURL, "model", cfg.ReasoningModel, "timeout", cfg.ReasoningTimeout.String())
	} else {
		lg.Info("no reasoning service configured, running heuristic-only")
	}

	runner := pipeline.NewRunner(cfg, lg, engine)
	differ := simulate.NewDiffer(runner, cfg.Coeffs, lg)
	publisher := publish.New(cfg.KafkaBrokers, cfg.ReportTopic, lg)
	defer publisher.Close()

	templates, err := simulate.LoadTemplates(cfg.ScenariosPath)
	if err != nil {
		lg.Error("scenario catalogue load failed", "err", err)
		os.Exit(1)
	}

	srv := api.NewServer(cfg, lg, runner, differ, publisher, templates)
	router := api.NewRouter(srv)

	handler := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(router)
	handler = handlers.LoggingHandler(os.Stdout, handler)

	httpSrv := &http.Server{Addr: cfg.HTTPBind, Handler: handler}

	go func() {
		lg.Info("http server starting", "bind", cfg.HTTPBind)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("http server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	lg.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		lg.Error("shutdown error", "err", err)
	}
}
