package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mwdirectory/mwtrack-go/config"
	"github.com/mwdirectory/mwtrack-go/events"
	"github.com/mwdirectory/mwtrack-go/models"
	"github.com/mwdirectory/mwtrack-go/utils"
)

// bearerToken pulls the token out of an Authorization header, empty when
// absent or malformed.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// StateHandler ingests a batch of client-reported UI events for a
// session.
func StateHandler(c *gin.Context) {
	ctx, err := getAppContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req models.StateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session ID required"})
		return
	}

	entry, exists := ctx.Cache.GetSession(req.SessionID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	processor := events.NewProcessor(req.SessionID, entry.Tracker)
	processor.ProcessEvents(req.Events)

	c.JSON(http.StatusOK, gin.H{"status": "ok", "processed": len(req.Events)})
}

// AuthStateHandler relays an auth state change into the session's signal
// bus. A nil user means signed out. On sign-in the backend-provided
// identity is relayed back as a signed token.
func AuthStateHandler(c *gin.Context) {
	ctx, err := getAppContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req models.AuthStateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, exists := ctx.Cache.GetSession(req.SessionID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	entry.Signals.Publish(req.User)

	if req.User == nil {
		c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
		return
	}

	token, err := utils.GenerateAuthToken(req.User.UID, req.User.Email, config.JWTSecret, config.AESKey)
	if err != nil {
		log.Printf("ERROR: AuthStateHandler - failed to generate auth token: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "signed_in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "signed_in", "token": token})
}

// InsightsHandler returns the read-only projection of a session's
// in-memory state.
func InsightsHandler(c *gin.Context) {
	ctx, err := getAppContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session ID required"})
		return
	}

	entry, exists := ctx.Cache.GetSession(sessionID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, entry.Tracker.Insights())
}

// DashboardHandler computes the analytics dashboard summary for a date
// range. It requires a bearer token issued by the auth relay.
func DashboardHandler(c *gin.Context) {
	ctx, err := getAppContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	uid, _, err := utils.UserFromToken(token, config.JWTSecret, config.AESKey)
	if err != nil {
		log.Printf("WARNING: DashboardHandler - token validation failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	log.Printf("DEBUG: DashboardHandler - summary requested by %s", uid)

	var req models.DashboardRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	data, err := ctx.Store.GetDashboardData(req.StartDate, req.EndDate)
	if err != nil {
		log.Printf("ERROR: DashboardHandler - failed to compute dashboard data: %v", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
