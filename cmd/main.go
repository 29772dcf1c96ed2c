package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/wes-io-live/banuid/internal/config"
	idgrpc "github.com/weiawesome/wes-io-live/banuid/internal/grpc"
	"github.com/weiawesome/wes-io-live/banuid/internal/handler"
	"github.com/weiawesome/wes-io-live/banuid/internal/service"
	"github.com/weiawesome/wes-io-live/banuid/pkg/banuid"
	pkglog "github.com/weiawesome/wes-io-live/banuid/pkg/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize generator; its shard id is stamped on every log line
	var (
		gen    *banuid.Generator
		source string
	)
	if cfg.Shard.AutoShard() {
		gen, source = banuid.New(), "derived"
	} else {
		gen, source = banuid.WithShardID(uint16(cfg.Shard.ID)), "config"
	}

	logger := pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "id-service",
		Shard:       &pkglog.Shard{ID: gen.ShardID(), Source: source},
	})

	logger.Info().Msg("starting id-service")
	if source == "derived" {
		logger.Info().
			Str(pkglog.FieldHostIdentity, banuid.HostIdentity()).
			Int("pid", os.Getpid()).
			Msg("banuid generator initialized")
	} else {
		if cfg.Shard.ID > int(banuid.MaxShardID) {
			logger.Warn().Int("configured", cfg.Shard.ID).Msg("shard id masked to 13 bits")
		}
		logger.Info().Msg("banuid generator initialized")
	}

	svc := service.NewIDService(gen)

	// Start gRPC server
	grpcAddr := fmt.Sprintf("%s:%d", cfg.GRPC.Host, cfg.GRPC.Port)
	grpcServer, err := idgrpc.StartGRPCServer(grpcAddr, svc, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start grpc server")
	}

	// Start HTTP server
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    httpAddr,
		Handler: handler.NewRouter(handler.NewHandler(svc), logger),
	}
	go func() {
		logger.Info().Str("addr", httpAddr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down id-service")
	if err := httpServer.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close http server")
	}
	grpcServer.GracefulStop()
	logger.Info().Msg("id-service stopped")
}
