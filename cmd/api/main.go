package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"birlik.org/internal/audit"
	"birlik.org/internal/auth"
	"birlik.org/internal/board"
	"birlik.org/internal/content"
	"birlik.org/internal/httpapi"
	"birlik.org/internal/obs"
	"birlik.org/internal/siteconfig"
	"birlik.org/internal/store/file"
	"birlik.org/internal/store/pg"
	"birlik.org/internal/stream"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	dsn := os.Getenv("BIRLIK_PG_DSN")
	if dsn == "" {
		log.Fatal("BIRLIK_PG_DSN is required")
	}
	secret := os.Getenv("BIRLIK_AUTH_SECRET")
	if secret == "" {
		log.Fatal("BIRLIK_AUTH_SECRET is required")
	}
	addr := os.Getenv("BIRLIK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	store, err := pg.Open(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	codec, err := auth.NewCodec(secret)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}
	authn, err := auth.NewAuthenticator(codec, store)
	if err != nil {
		log.Fatalf("authenticator: %v", err)
	}
	accounts, err := auth.NewService(store, codec)
	if err != nil {
		log.Fatalf("accounts service: %v", err)
	}

	// Legacy flat-file roster, kept as read-through fallback while the
	// data migrates into Postgres.
	var fallback board.FallbackStore
	if path := os.Getenv("BIRLIK_BOARD_FILE"); path != "" {
		fs, err := file.New(path)
		if err != nil {
			log.Fatalf("board file store: %v", err)
		}
		fallback = board.NewFileStore(fs)
	}
	policy := board.DefaultWritePolicy()
	if os.Getenv("BIRLIK_BOARD_LEGACY_WRITES") == "1" {
		policy = board.LegacyWritePolicy()
	}
	roster, err := board.NewReconciler(store, fallback, policy)
	if err != nil {
		log.Fatalf("board reconciler: %v", err)
	}

	contentSvc, err := content.NewService(store)
	if err != nil {
		log.Fatalf("content service: %v", err)
	}

	feed := stream.New()
	recorder := audit.NewRecorder(feed)

	var configStore siteconfig.Store = store

	api := httpapi.New(httpapi.ReadyProbe{DB: store.DB()}, version, httpapi.Services{
		Authn:    authn,
		Accounts: accounts,
		Config:   configStore,
		Roster:   roster,
		Content:  contentSvc,
	}, feed, recorder)

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Optional gRPC health endpoint for orchestrators that probe over
	// gRPC instead of HTTP.
	var grpcSrv *grpc.Server
	if grpcAddr := os.Getenv("BIRLIK_GRPC_ADDR"); grpcAddr != "" {
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			log.Fatalf("grpc listen: %v", err)
		}
		grpcSrv = grpc.NewServer()
		healthSrv := health.NewServer()
		healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(grpcSrv, healthSrv)
		go func() {
			if err := grpcSrv.Serve(lis); err != nil {
				log.Fatalf("grpc serve: %v", err)
			}
		}()
		log.Printf("gRPC health on %s", grpcAddr)
	}

	log.Printf("Starting birlik-cms %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	log.Println("Stopped")
}
