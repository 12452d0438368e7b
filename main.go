package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mwdirectory/mwtrack-go/api"
	"github.com/mwdirectory/mwtrack-go/app"
	"github.com/mwdirectory/mwtrack-go/cache"
	"github.com/mwdirectory/mwtrack-go/config"
	"github.com/mwdirectory/mwtrack-go/geo"
	"github.com/mwdirectory/mwtrack-go/media"
	"github.com/mwdirectory/mwtrack-go/store"
	"github.com/mwdirectory/mwtrack-go/tracker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found -- config defaults will be used")
	}

	// Initialize the session cache manager
	cacheManager := cache.NewManager()
	log.Println("Session cache manager initialized")

	// Start cleanup routine
	cache.StartCleanupRoutine(cacheManager)

	// Open the document store (Turso with SQLite fallback)
	db, err := store.NewDatabase()
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer db.Close()
	log.Printf("Store connected: %s", db.GetConnectionInfo())

	sink, err := tracker.NewFileSink(config.ActivityLogDir)
	if err != nil {
		log.Fatalf("Failed to create activity log sink: %v", err)
	}

	appCtx := &app.Context{
		Store:    store.NewClient(db),
		Resolver: geo.NewHTTPResolver(),
		Sink:     sink,
		Media:    media.NewProcessor(config.MediaDir),
		Cache:    cacheManager,
	}

	r := gin.Default()
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	// Configure CORS to allow localhost origins (including IPv6)
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5000",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5000",
			"http://[::1]:3000",
			"http://[::1]:5000",
		},
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", "X-Session-ID",
		},
		AllowCredentials: true,
	}))

	// Application context middleware
	r.Use(func(c *gin.Context) {
		c.Set("app", appCtx)
		c.Next()
	})

	// Tracking and system routes
	r.POST("/api/v1/auth/visit", api.VisitHandler)
	r.POST("/api/v1/auth/state", api.StateHandler)
	r.POST("/api/v1/auth/profile", api.AuthStateHandler)
	r.GET("/api/v1/db/status", api.DBStatusHandler)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/ip", api.IPHandler)
		v1.GET("/debug/ip", api.DebugIPHandler)
		v1.GET("/insights", api.InsightsHandler)
		v1.POST("/analytics/dashboard", api.DashboardHandler)

		posts := v1.Group("/posts")
		{
			posts.POST("", api.CreatePostHandler)
			posts.GET("", api.LoadPostsHandler)
		}
	}

	// Uploaded media is served straight from disk
	r.Static("/media", config.MediaDir)

	log.Printf("Starting server on :%s", config.Port)
	if err := r.Run(":" + config.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
