package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/cryptea/internal/catalog"
	"github.com/KirkDiggler/cryptea/internal/clients/storage"
	"github.com/KirkDiggler/cryptea/internal/compositor"
	"github.com/KirkDiggler/cryptea/internal/config"
	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/gateway"
	"github.com/KirkDiggler/cryptea/internal/handlers/forge/v1alpha1"
	"github.com/KirkDiggler/cryptea/internal/orchestrators/forge"
	"github.com/KirkDiggler/cryptea/internal/pkg/clock"
	"github.com/KirkDiggler/cryptea/internal/pkg/idgen"
	"github.com/KirkDiggler/cryptea/internal/redis"
	artifactledger "github.com/KirkDiggler/cryptea/internal/repositories/artifact_ledger"
	selectionsession "github.com/KirkDiggler/cryptea/internal/repositories/selection_session"
)

var (
	configPath string
	grpcPort   int
	httpPort   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC server and HTTP gateway",
	Long:  `Load the collection's catalog once and serve the editor API over gRPC and HTTP.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "cryptea.yaml", "path to the YAML config file")
	serveCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides config)")
	serveCmd.Flags().IntVar(&httpPort, "http-port", 0, "HTTP gateway port (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if grpcPort != 0 {
		cfg.Server.GRPCPort = grpcPort
	}
	if httpPort != 0 {
		cfg.Server.HTTPPort = httpPort
	}

	cat, err := catalog.Load(cfg.CatalogPath())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	log.Printf("Loaded catalog for %s: %d categories", cfg.Collection.Name, cat.Len())

	sessionRepo, ledger, closeRepo, err := newRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	loader, err := compositor.NewFSLoader(cfg.CollectionPath())
	if err != nil {
		return err
	}
	comp, err := compositor.New(&compositor.Config{
		Loader:      loader,
		CanvasSize:  cfg.Render.CanvasSize,
		Format:      compositor.Format(cfg.Render.Format),
		JPEGQuality: cfg.Render.JPEGQuality,
	})
	if err != nil {
		return fmt.Errorf("failed to create compositor: %w", err)
	}

	layers := make(traits.LayerOrder, 0, len(cfg.Collection.LayerOrder))
	for _, category := range cfg.Collection.LayerOrder {
		layers = append(layers, traits.Category(category))
	}

	forgeService, err := forge.NewOrchestrator(&forge.Config{
		Collection: forge.Collection{
			Name:        cfg.Collection.Name,
			Description: cfg.Collection.Description,
		},
		Catalog:               cat,
		LayerOrder:            layers,
		CanvasSize:            comp.CanvasSize(),
		SessionRepo:           sessionRepo,
		Composer:              comp,
		Storage:               store,
		Ledger:                ledger,
		Roller:                dice.DefaultRoller,
		IDGenerator:           idgen.NewUUID("session"),
		Clock:                 clock.New(),
		SessionTTL:            cfg.Session.TTL,
		ComposeTimeout:        cfg.Session.ComposeTimeout,
		CleanupTimeout:        cfg.Session.CleanupTimeout,
		MaxConcurrentComposes: cfg.Render.MaxConcurrent,
	})
	if err != nil {
		return fmt.Errorf("failed to create forge orchestrator: %w", err)
	}

	forgeHandler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{ForgeService: forgeService})
	if err != nil {
		return fmt.Errorf("failed to create forge handler: %w", err)
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
	v1alpha1.RegisterForgeServiceServer(srv, forgeHandler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	gw, err := gateway.New(&gateway.Config{ForgeService: forgeService, Assets: loader})
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           gw.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("gRPC server starting on port %d...", cfg.Server.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			return fmt.Errorf("failed to serve gRPC: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Printf("HTTP gateway starting on port %d...", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to serve HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down...")
		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP gateway shutdown: %v", err)
		}

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-shutdownCtx.Done():
			log.Println("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			log.Println("gRPC server stopped gracefully")
		}

		if err := forgeService.Drain(shutdownCtx); err != nil {
			log.Printf("Artifact cleanup did not finish: %v", err)
		}
		return nil
	})

	return g.Wait()
}

// newRepositories returns the session store and the artifact ledger. Both
// live in Redis when it is configured so every server shares them.
func newRepositories(ctx context.Context, cfg *config.Config) (selectionsession.Repository, artifactledger.Repository, func(), error) {
	c := clock.New()
	if len(cfg.Redis.Addrs) == 0 {
		log.Println("No redis configured, keeping sessions in memory")
		return selectionsession.NewInMemory(c), artifactledger.NewInMemory(c), func() {}, nil
	}

	client, err := redis.Connect(ctx, cfg.Redis.Addrs, &redis.Options{
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		UseTLS:        cfg.Redis.UseTLS,
		TLSSkipVerify: cfg.Redis.TLSSkipVerify,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			log.Printf("Failed to close redis client: %v", err)
		}
	}

	repo, err := selectionsession.NewRedisRepository(&selectionsession.Config{
		Client: client,
		Clock:  c,
	})
	if err != nil {
		closeClient()
		return nil, nil, nil, fmt.Errorf("failed to create session repository: %w", err)
	}

	ledger, err := artifactledger.NewRedisRepository(&artifactledger.Config{Client: client})
	if err != nil {
		closeClient()
		return nil, nil, nil, fmt.Errorf("failed to create artifact ledger: %w", err)
	}
	return repo, ledger, closeClient, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Client, error) {
	switch cfg.Storage.Backend {
	case config.StorageS3:
		store, err := storage.NewS3Store(ctx, &storage.S3Config{
			Bucket:   cfg.Storage.S3.Bucket,
			Region:   cfg.Storage.S3.Region,
			Endpoint: cfg.Storage.S3.Endpoint,
			Prefix:   cfg.Storage.S3.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 store: %w", err)
		}
		return store, nil
	default:
		store, err := storage.NewFSStore(cfg.Storage.FS.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to create artifact store: %w", err)
		}
		return store, nil
	}
}

func logFunc(_ context.Context, level grpc_logging.Level, msg string, fields ...any) {
	log.Printf("[%v] %s %v", level, msg, fields)
}
