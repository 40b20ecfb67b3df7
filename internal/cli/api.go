package cli

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"quiz-ladders/internal/app"
	"quiz-ladders/internal/config"
	"quiz-ladders/internal/transport/api"
)

// NewAPICmd builds the subcommand serving the tests API.
func NewAPICmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Start the tests API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPI(cmd.Context(), *configPath, *port)
		},
	}
}

func runAPI(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, closeStore, err := openTestStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	redisClient := newRedisClient(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}
	catalog := app.NewCatalogService(newTestRepository(cfg, store, redisClient))

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandler(catalog), cfg.API.CORSOrigins)

	finalPort := firstNonEmpty(portFlag, cfg.API.Port, "8000")
	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	log.Printf("starting tests API on :%s", finalPort)
	return serve(ctx, server)
}
