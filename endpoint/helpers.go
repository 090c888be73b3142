package endpoint

import (
	"fmt"
	"strconv"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/ariebrainware/coffee-brokerage/middleware"
	"github.com/ariebrainware/coffee-brokerage/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// The records screens have a single administrator.
const (
	AdminName = "Admin"
	AdminID   = "admin-001"
)

// helper: ensure DB is available in context or respond with server error
func ensureDB(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return nil, false
	}
	return db, true
}

// helper: ensure the audit trail is available in context or respond with server error
func ensureTrail(c *gin.Context) (*audit.Trail, bool) {
	trail := middleware.GetTrail(c)
	if trail == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Audit trail not available",
			Err: fmt.Errorf("trail is nil"),
		})
		return nil, false
	}
	return trail, true
}

// helper: get and validate numeric id param from path
func getIDParam(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Invalid %s ID", what),
			Err: fmt.Errorf("%s ID must be a positive integer", what),
		})
		return 0, false
	}
	return uint(id), true
}

func paginationParams(c *gin.Context, defaultLimit int) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// recordAction appends an administrator action to the audit trail. Device and
// browser come from the request; network and session state are filled in by the store.
func recordAction(c *gin.Context, module, action, details string, result audit.Result) {
	trail := middleware.GetTrail(c)
	if trail == nil {
		return
	}
	ctx := c.Request.Context()
	client := audit.ClientFromContext(ctx)
	trail.Logs.AddLog(ctx, audit.LogEntry{
		UserName:    AdminName,
		UserID:      AdminID,
		AccessLevel: audit.AccessAdmin,
		Action:      action,
		Details:     details,
		Origin: audit.Origin{
			Module:  module,
			Device:  client.Device,
			Browser: client.Browser,
		},
		Result: result,
	})
}
