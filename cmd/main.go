package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwrk-planet/course-relay/config"
	"github.com/cwrk-planet/course-relay/internal/memory"
	"github.com/cwrk-planet/course-relay/internal/metrics"
	"github.com/cwrk-planet/course-relay/internal/relay"
	"github.com/cwrk-planet/course-relay/internal/service"
	grpcx "github.com/cwrk-planet/course-relay/internal/transport/grpc"
	httpx "github.com/cwrk-planet/course-relay/internal/transport/http"
	"github.com/cwrk-planet/course-relay/internal/transport/ws"
	"github.com/cwrk-planet/course-relay/pkg/logger"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg := logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		Level:     logger.ParseLevel(cfg.Logging.Level),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	lg.Info("starting course-relay",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- metrics ---
	reg := metrics.NewRegistry()
	relayMetrics := metrics.NewRelay(reg)
	httpMetrics := metrics.NewHTTP(reg)

	// --- repos & services ---
	registry := service.NewRegistryService(memory.NewUserRepository(), memory.NewCourseRepository())

	// --- relay hub & WS server ---
	ctx, stopHub := context.WithCancel(context.Background())
	defer stopHub()

	hub := relay.NewHub(lg, relayMetrics, cfg.Relay.EventBuffer)
	go hub.Run(ctx)

	wsServer := ws.NewServer(hub, lg, ws.Config{
		ReadLimit:      cfg.Relay.ReadLimit,
		PingEvery:      cfg.PingEvery(),
		SendBuffer:     cfg.Relay.SendBuffer,
		AllowedOrigins: cfg.Relay.AllowedOrigins,
	})

	// --- HTTP ---
	handler := httpx.NewHandler(registry, hub, lg)
	router := httpx.NewRouter(handler, wsServer.HandleWS, httpx.RouterOptions{
		Log:         lg,
		Metrics:     httpMetrics,
		MetricsPage: metrics.Handler(reg),
		CORSOrigins: cfg.CORS.AllowedOrigins,
	})
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// --- gRPC ---
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpcx.UnaryServerInterceptor(lg)),
		grpc.ChainStreamInterceptor(grpcx.StreamServerInterceptor(lg)),
	)
	healthSrv := grpcx.Register(grpcServer, grpcx.NewServer(registry))

	// --- run both servers ---
	errCh := make(chan error, 2)

	go func() {
		lg.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go func() {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			errCh <- err
			return
		}
		lg.Info("grpc listen", "addr", cfg.GRPC.Addr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigCh:
		lg.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		lg.Error("server error", "err", err)
		exitCode = 1
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownAfter())
	defer cancel()

	healthSrv.SetServingStatus(grpcx.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthSrv.Shutdown()

	if err := httpSrv.Shutdown(ctxShutdown); err != nil {
		lg.Warn("http shutdown", "err", err)
	}
	// Hijacked websocket conns are not covered by http.Server.Shutdown.
	if n := wsServer.CloseAll(); n > 0 {
		lg.Info("closed websocket connections", "count", n)
	}

	stopHub()
	select {
	case <-hub.Done():
	case <-ctxShutdown.Done():
		lg.Warn("relay hub did not stop in time")
	}

	grpcServer.GracefulStop()
	lg.Info("stopped")

	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}
