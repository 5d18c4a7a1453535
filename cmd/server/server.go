package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/questforge/questforge-api/internal/errors"
	characterorc "github.com/questforge/questforge-api/internal/orchestrators/character"
	combatorc "github.com/questforge/questforge-api/internal/orchestrators/combat"
	questorc "github.com/questforge/questforge-api/internal/orchestrators/quest"
	shoporc "github.com/questforge/questforge-api/internal/orchestrators/shop"
	"github.com/questforge/questforge-api/internal/pkg/clock"
	"github.com/questforge/questforge-api/internal/pkg/idgen"
	"github.com/questforge/questforge-api/internal/pkg/lock"
	"github.com/questforge/questforge-api/internal/pkg/rng"
	"github.com/questforge/questforge-api/internal/redis"
	characterrepo "github.com/questforge/questforge-api/internal/repositories/character"
	"github.com/questforge/questforge-api/internal/repositories/characterquest"
	"github.com/questforge/questforge-api/internal/repositories/combatsession"
	"github.com/questforge/questforge-api/internal/repositories/cooldown"
	"github.com/questforge/questforge-api/internal/repositories/gamedata"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the QuestForge server",
	Long:  `Start the QuestForge server with all engine services wired to Redis.`,
	RunE:  runServer,
}

// services bundles the wired engine surface.
type services struct {
	Character characterorc.Service
	Combat    combatorc.Service
	Quest     questorc.Service
	Shop      shoporc.Service
}

// buildServices constructs the repository and orchestrator graph on top of
// a Redis connection.
func buildServices(cfg *Config) (*services, error) {
	client, err := redis.NewClient(cfg.RedisAddress, &redis.Options{
		PoolSize:        cfg.RedisPoolSize,
		MinIdleConns:    cfg.RedisMinIdleConns,
		ConnMaxIdleTime: cfg.RedisConnMaxIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	charRepo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, err
	}
	sessionRepo, err := combatsession.NewRedis(&combatsession.RedisConfig{Client: client})
	if err != nil {
		return nil, err
	}
	questRepo, err := characterquest.NewRedis(&characterquest.RedisConfig{Client: client})
	if err != nil {
		return nil, err
	}
	cooldownRepo, err := cooldown.NewRedis(&cooldown.RedisConfig{Client: client})
	if err != nil {
		return nil, err
	}
	gameData := gamedata.NewSeeded()

	locks := lock.NewKeyed()
	clk := clock.New()
	roller := rng.NewFromTime()

	characterSvc, err := characterorc.NewOrchestrator(&characterorc.Config{
		CharacterRepo: charRepo,
		Locks:         locks,
		IDGenerator:   idgen.NewUUID("char"),
	})
	if err != nil {
		return nil, err
	}

	combatSvc, err := combatorc.NewOrchestrator(&combatorc.Config{
		CharacterRepo:      charRepo,
		SessionRepo:        sessionRepo,
		CharacterQuestRepo: questRepo,
		CooldownRepo:       cooldownRepo,
		GameData:           gameData,
		Locks:              locks,
		IDGenerator:        idgen.NewUUID("combat"),
		Clock:              clk,
		Roller:             roller,
	})
	if err != nil {
		return nil, err
	}

	questSvc, err := questorc.NewOrchestrator(&questorc.Config{
		CharacterRepo:      charRepo,
		CharacterQuestRepo: questRepo,
		GameData:           gameData,
		Locks:              locks,
		IDGenerator:        idgen.NewUUID("cq"),
	})
	if err != nil {
		return nil, err
	}

	shopSvc, err := shoporc.NewOrchestrator(&shoporc.Config{
		CharacterRepo: charRepo,
		GameData:      gameData,
		Locks:         locks,
	})
	if err != nil {
		return nil, err
	}

	return &services{
		Character: characterSvc,
		Combat:    combatSvc,
		Quest:     questSvc,
		Shop:      shopSvc,
	}, nil
}

// checkStorage exercises the service graph against Redis before the
// listener comes up, so a bad connection fails startup instead of the
// first request. A not-found on the sentinel ID is the healthy case.
//
// TODO: register gRPC handlers for these services once the public
// proto definitions are published.
func checkStorage(ctx context.Context, svcs *services) error {
	_, err := svcs.Character.Get(ctx, &characterorc.GetInput{ID: "startup-check"})
	if err != nil && !errors.IsNotFound(err) {
		return err
	}
	return nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	svcs, err := buildServices(cfg)
	if err != nil {
		return err
	}
	if err := checkStorage(ctx, svcs); err != nil {
		return fmt.Errorf("storage check failed: %w", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.GRPCPort, "redis", cfg.RedisAddress)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			slog.Info("server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
