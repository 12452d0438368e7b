package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mwdirectory/mwtrack-go/cache"
	"github.com/mwdirectory/mwtrack-go/geo"
	"github.com/mwdirectory/mwtrack-go/models"
	"github.com/mwdirectory/mwtrack-go/tracker"
)

// VisitHandler runs the session initialization protocol: it constructs a
// tracker for this page load, resolves identity, settles the caller
// record and returns the new session. Calling it twice for one page load
// produces two fully independent sessions.
func VisitHandler(c *gin.Context) {
	ctx, err := getAppContext(c)
	if err != nil {
		log.Printf("DEBUG: VisitHandler - getAppContext failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req models.VisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("DEBUG: VisitHandler - JSON binding failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	if req.UserAgent == nil {
		ua := c.Request.UserAgent()
		req.UserAgent = &ua
	}

	t := tracker.New(ctx.Store, ctx.Resolver, ctx.Sink)
	signals := tracker.NewSignalBus()

	result := t.Init(c.Request.Context(), geo.ClientIP(c.Request), &req, signals)

	ctx.Cache.SetSession(result.SessionID, &cache.Entry{
		Tracker: t,
		Signals: signals,
	})

	c.JSON(http.StatusOK, result)
}
