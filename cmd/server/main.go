package main

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit"
	auditrepo "github.com/Rohitbatham1306/credential-dashbaord/internal/audit/repository"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/config"
	credentialservice "github.com/Rohitbatham1306/credential-dashbaord/internal/credential/service"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/db"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/db/migrate"
	healthhandler "github.com/Rohitbatham1306/credential-dashbaord/internal/health/handler"
	identityservice "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/service"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/notify"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/policy/engine"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/security"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/server"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/server/interceptors"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/store"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/telemetry/loki"
	telemetry "github.com/Rohitbatham1306/credential-dashbaord/internal/telemetry/otel"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.NewProviders(ctx, cfg.OTelEndpoint, cfg.OTelServiceName, cfg.OTelInsecure)
	if err != nil {
		return err
	}
	providers.SetGlobal()
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(sctx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	var (
		st        store.Store
		auditRepo auditrepo.Repository
		pinger    healthhandler.Pinger
	)
	if cfg.DatabaseURL != "" {
		if cfg.AutoMigrate {
			if err := migrate.Run(cfg.DatabaseURL, migrate.Up); err != nil {
				return err
			}
		}
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		st = store.NewPostgresStore(conn)
		auditRepo = auditrepo.NewPostgresRepository(conn)
		pinger = conn
	} else {
		log.Println("DATABASE_URL not set; using the in-memory store (data is lost on exit)")
		st = store.NewMemoryStore()
		auditRepo = auditrepo.NewMemoryRepository()
	}
	auditLog := audit.NewLogger(auditRepo, interceptors.ClientIP)

	authz, err := newAuthorizer(ctx, cfg)
	if err != nil {
		return err
	}
	tokens, err := newTokenProvider(cfg)
	if err != nil {
		return err
	}
	auth := identityservice.NewAuthService(st, security.NewHasher(cfg.BcryptCost), tokens, auditLog)

	sinks := []notify.Sink{telemetry.NewEventSink(providers.LoggerProvider)}
	if brokers := cfg.KafkaBrokersList(); len(brokers) > 0 {
		producer := notify.NewKafkaProducer(brokers, cfg.NotifyKafkaTopic)
		defer producer.Close()
		sinks = append(sinks, producer)
	}
	if cfg.LokiURL != "" {
		sinks = append(sinks, loki.NewSink(cfg.LokiURL, cfg.OTelServiceName))
	}
	dispatcher := notify.NewDispatcher(auditLog, sinks, cfg.DispatchQueueSize, cfg.DispatchWorkers)
	dispatcher.Start()

	grpcServer := server.NewGRPCServer(server.Deps{
		Auth:                auth,
		Engine:              lifecycle.NewEngine(st, lifecycle.WithDispatcher(dispatcher)),
		Catalog:             credentialservice.NewCatalogService(st, auditLog),
		Authz:               authz,
		Tokens:              tokens,
		AuditRepo:           auditRepo,
		AuditLog:            auditLog,
		HealthPinger:        pinger,
		HealthPolicyChecker: authz,
	}, grpc.StatsHandler(otelgrpc.NewServerHandler()))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down gRPC server...")
		grpcServer.GracefulStop()
		return nil
	})
	serveErr := g.Wait()

	dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := dispatcher.Close(dctx); err != nil {
		log.Printf("notify: drain: %v", err)
	}
	log.Println("gRPC server stopped")
	return serveErr
}

func newAuthorizer(ctx context.Context, cfg *config.Config) (*engine.OPAAuthorizer, error) {
	if cfg.AuthzPolicyFile != "" {
		return engine.NewOPAAuthorizerFromFile(ctx, cfg.AuthzPolicyFile)
	}
	return engine.NewOPAAuthorizer(ctx, "")
}

func newTokenProvider(cfg *config.Config) (*security.TokenProvider, error) {
	if !cfg.AuthEnabled() {
		log.Println("JWT keys not set; signing with an ephemeral key (tokens are invalid after restart)")
		signer, pub, err := security.GenerateKeyPair()
		if err != nil {
			return nil, err
		}
		return security.NewTokenProvider(signer, pub, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL()), nil
	}
	signer, pub, err := security.LoadKeyPair(cfg.JWTPrivateKey, cfg.JWTPublicKey)
	if err != nil {
		return nil, err
	}
	return security.NewTokenProvider(signer, pub, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL()), nil
}
