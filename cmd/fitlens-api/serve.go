package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/fitlens/backend/internal/handlers"
	"github.com/fitlens/backend/internal/logger"
	"github.com/fitlens/backend/internal/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if port != "" {
		cfg.Server.Port = port
	}

	loc, err := cfg.Charts.Location()
	if err != nil {
		return err
	}

	chartHandler := handlers.NewChartHandler(a.charts, handlers.WindowConfig{
		DefaultDays: cfg.Charts.DefaultWindowDays,
		MaxDays:     cfg.Charts.MaxWindowDays,
		Location:    loc,
	})

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestContext(a.log))
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.SecurityHeaders(cfg.Server.Env == "production"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
			"store":  cfg.Store.Driver,
		})
	})

	var authenticate gin.HandlerFunc
	if a.verifier != nil {
		authenticate = middleware.Auth(a.verifier)
	} else {
		authenticate = middleware.LocalUser(cfg.Store.LocalUserID)
	}

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(authenticate)
		{
			charts := protected.Group("/charts")
			charts.GET("/metrics", chartHandler.GetMetrics)

			limited := charts.Group("")
			limited.Use(middleware.RateLimit(cfg.Server.RateLimitPerMinute))
			{
				limited.POST("", chartHandler.BuildChart)
				limited.POST("/batch", chartHandler.BuildBatch)
			}
		}
	}

	a.log.Info("server listening",
		logger.String("port", cfg.Server.Port),
		logger.String("env", cfg.Server.Env),
	)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
