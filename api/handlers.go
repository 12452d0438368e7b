// Package api provides HTTP handlers for the tracking, posting and debug
// endpoints.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mwdirectory/mwtrack-go/app"
	"github.com/mwdirectory/mwtrack-go/geo"
)

// getAppContext is a helper to extract the application context from gin context
func getAppContext(c *gin.Context) (*app.Context, error) {
	appCtx, exists := c.Get("app")
	if !exists {
		return nil, fmt.Errorf("no application context")
	}
	return appCtx.(*app.Context), nil
}

// DBStatusHandler verifies the store connection and reports status text.
func DBStatusHandler(c *gin.Context) {
	ctx, err := getAppContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.Store.DB().Ping(); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status":   "error",
			"database": ctx.Store.DB().GetConnectionInfo(),
			"message":  fmt.Sprintf("Backend connection failed: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "connected",
		"database": ctx.Store.DB().GetConnectionInfo(),
		"message":  "Backend connection initialized successfully",
	})
}

// IPHandler resolves and returns the caller's identity.
func IPHandler(c *gin.Context) {
	ctx, err := getAppContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ip := geo.ClientIP(c.Request)
	identity, err := ctx.Resolver.Resolve(c.Request.Context(), ip)
	if err != nil || identity == nil {
		c.JSON(http.StatusOK, gin.H{"ip": "unknown", "error": "identity resolution failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ip":        identity.IP,
		"geo":       identity.Geo,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DebugIPHandler returns the caller's IP only.
func DebugIPHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ip": geo.ClientIP(c.Request)})
}
