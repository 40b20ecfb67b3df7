package cli

import (
	"context"
	"crypto/rand"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"quiz-ladders/internal/apiclient"
	"quiz-ladders/internal/config"
	"quiz-ladders/internal/infra/memory"
	infraredis "quiz-ladders/internal/infra/redis"
	transport "quiz-ladders/internal/transport/http"
	"quiz-ladders/internal/ui"
)

// NewStartCmd builds the CLI subcommand to start the web UI.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	client := apiclient.New(cfg.API.BaseURL, config.TTLDuration(cfg.API.Timeout, 10*time.Second))
	opts := ui.Options{FrameInterval: config.TTLDuration(cfg.Animation.FrameInterval, 16*time.Millisecond)}
	factory := func(clientID string) *ui.Store {
		return ui.NewStore(clientID, client, opts)
	}

	idle := config.TTLDuration(cfg.Session.IdleTTL, 30*time.Minute)
	var registry ui.Registry
	if redisClient := newRedisClient(cfg); redisClient != nil {
		defer redisClient.Close()
		registry = infraredis.NewStoreRegistry(redisClient, factory, idle)
	} else {
		registry = memory.NewStoreRegistry(factory, idle)
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go ui.RunSweeper(sweepCtx, registry, config.TTLDuration(cfg.Session.SweepInterval, time.Minute))

	pages, err := transport.NewUIHandler(registry, cookieSecret(cfg))
	if err != nil {
		return err
	}
	mux := transport.NewMux(pages, transport.NewWSHandler(pages))

	finalPort := firstNonEmpty(portFlag, cfg.Server.Port, "8080")
	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}
	log.Printf("starting quiz UI on :%s (tests API at %s)", finalPort, cfg.API.BaseURL)
	return serve(ctx, server)
}

// serve runs server until SIGINT, SIGTERM or ctx cancellation, then shuts it down.
func serve(ctx context.Context, server *http.Server) error {
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// cookieSecret returns the configured signing key, or a random one that invalidates
// cookies on restart.
func cookieSecret(cfg config.Config) []byte {
	if cfg.Server.CookieSecret != "" {
		return []byte(cfg.Server.CookieSecret)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Printf("cookie secret: %v", err)
	}
	log.Printf("server.cookie_secret not set, using a random key")
	return key
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
