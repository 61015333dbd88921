package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/stonesign/plaque-cms/internal/api"
	"github.com/stonesign/plaque-cms/internal/config"
	"github.com/stonesign/plaque-cms/internal/identity"
	"github.com/stonesign/plaque-cms/internal/migrate"
	"github.com/stonesign/plaque-cms/internal/repository/postgres"
	grpcserver "github.com/stonesign/plaque-cms/internal/server/grpc"
	httpserver "github.com/stonesign/plaque-cms/internal/server/http"
	"github.com/stonesign/plaque-cms/internal/service"
	"github.com/stonesign/plaque-cms/internal/storage"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and serve the HTTP and gRPC APIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireJWTKey(); err != nil {
				return err
			}
			logger, err := newLogger(cfg.Dev)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("http", cfg.HTTPAddr),
		zap.String("grpc", cfg.GRPCAddr),
		zap.String("storage", cfg.Storage.Backend),
	)

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	blobs, err := openBlobs(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	mediaRepo := postgres.NewMediaRepo(db)
	ident := identity.NewService(postgres.NewUserRepo(db), []byte(cfg.JWTKey), cfg.AccessTTL)
	router := api.NewRouter(api.Deps{
		Content:  postgres.NewContentRepo(db),
		Media:    mediaRepo,
		Gallery:  postgres.NewGalleryRepo(db),
		Uploader: service.NewMediaService(mediaRepo, blobs),
	})

	rpc := grpcserver.New(router, ident, logger)
	gs := grpc.NewServer(rpc.Interceptors())
	rpc.Register(gs)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	for name := range gs.GetServiceInfo() {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	if cfg.Dev {
		reflection.Register(gs)
	}

	if !cfg.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	hopts := httpserver.Options{
		Router:        router,
		Identity:      ident,
		Log:           logger,
		SessionSecret: []byte(cfg.SessionSecret),
		SecureCookies: !cfg.Dev,
		CORSOrigins:   cfg.CORSOrigins,
	}
	if cfg.Storage.Backend == config.BackendLocal && strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") {
		hopts.MediaDir = cfg.Storage.UploadDir
		hopts.MediaPath = cfg.Storage.PublicBaseURL
	}
	hsrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpserver.New(hopts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("grpc listening", zap.String("addr", cfg.GRPCAddr))
		return gs.Serve(lis)
	})
	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := hsrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		hs.Shutdown()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := hsrv.Shutdown(sctx)
		stopGRPC(gs, shutdownTimeout)
		return err
	})

	err = g.Wait()
	if err != nil && ctx.Err() == nil {
		logger.Error("server error", zap.Error(err))
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

// stopGRPC drains in-flight calls and forces a stop after d.
func stopGRPC(s *grpc.Server, d time.Duration) {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		s.Stop()
	}
}

func openBlobs(ctx context.Context, sc config.Storage) (storage.Blobs, error) {
	switch sc.Backend {
	case config.BackendS3:
		return storage.NewS3(ctx, storage.S3Config{
			Bucket:        sc.S3Bucket,
			Region:        sc.S3Region,
			Endpoint:      sc.S3Endpoint,
			AccessKey:     sc.S3AccessKey,
			SecretKey:     sc.S3SecretKey,
			PublicBaseURL: sc.PublicBaseURL,
		})
	default:
		return storage.NewLocal(sc.UploadDir, sc.PublicBaseURL), nil
	}
}
