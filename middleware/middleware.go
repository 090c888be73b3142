package middleware

import (
	"net/http"
	"strings"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/ariebrainware/coffee-brokerage/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	dbKey    = "db"
	trailKey = "trail"
)

// CORSMiddleware configures CORS headers for incoming requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Authorization, "+clientHints)
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Content-Type", "application/json")

		// For preflight requests, respond with 204 and abort further processing.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// DatabaseMiddleware makes db available to handlers through GetDB.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbKey, db)
		c.Next()
	}
}

// GetDB returns the database set by DatabaseMiddleware, or nil.
func GetDB(c *gin.Context) *gorm.DB {
	v, ok := c.Get(dbKey)
	if !ok {
		return nil
	}
	db, _ := v.(*gorm.DB)
	return db
}

// TrailMiddleware makes the audit trail available to handlers through GetTrail.
func TrailMiddleware(trail *audit.Trail) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(trailKey, trail)
		c.Next()
	}
}

// GetTrail returns the trail set by TrailMiddleware, or nil.
func GetTrail(c *gin.Context) *audit.Trail {
	v, ok := c.Get(trailKey)
	if !ok {
		return nil
	}
	t, _ := v.(*audit.Trail)
	return t
}

var clientHints = strings.Join(audit.ClientHintHeaders, ", ")

// RequestContext asks browsers for network client hints and attaches the
// request headers and parsed user agent to the request context, where the
// audit trail reads them.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Accept-CH", clientHints)

		ctx := audit.ContextWithHeaders(c.Request.Context(), c.Request.Header.Clone())
		ctx = audit.ContextWithClient(ctx, util.ParseClient(c.Request.UserAgent()))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
