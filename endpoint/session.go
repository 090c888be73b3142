package endpoint

import (
	"errors"
	"time"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/ariebrainware/coffee-brokerage/util"
	"github.com/gin-gonic/gin"
)

var errCoordinates = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")

type sessionPatch struct {
	StartTime     *time.Time `json:"startTime"`
	LoginAttempts *int       `json:"loginAttempts" example:"1"`
	LastActivity  *time.Time `json:"lastActivity"`
	UserName      *string    `json:"userName" example:"Admin"`
	UserID        *string    `json:"userId" example:"admin-001"`
}

// GetSession godoc
// @Summary      Get the current session
// @Tags         Session
// @Produce      json
// @Success      200 {object} util.APIResponse{data=audit.UserSession} "Session retrieved"
// @Router       /session [get]
func GetSession(c *gin.Context) {
	trail, ok := ensureTrail(c)
	if !ok {
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Session retrieved", Data: trail.Session.Snapshot()})
}

// UpdateSession godoc
// @Summary      Merge fields into the session
// @Description  Only the fields present in the body are changed. Values are not validated.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        session body sessionPatch true "Fields to merge"
// @Success      200 {object} util.APIResponse{data=audit.UserSession} "Session updated"
// @Failure      400 {object} util.APIResponse "Invalid body"
// @Router       /session [patch]
func UpdateSession(c *gin.Context) {
	trail, ok := ensureTrail(c)
	if !ok {
		return
	}

	var req sessionPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid request body", Err: err})
		return
	}

	trail.Session.UpdateSession(audit.SessionUpdate{
		StartTime:     req.StartTime,
		LoginAttempts: req.LoginAttempts,
		LastActivity:  req.LastActivity,
		UserName:      req.UserName,
		UserID:        req.UserID,
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Session updated", Data: trail.Session.Snapshot()})
}

// UpdateGeolocation godoc
// @Summary      Report a position fix
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        coordinates body audit.Coordinates true "Position"
// @Success      200 {object} util.APIResponse{data=audit.UserSession} "Geolocation updated"
// @Failure      400 {object} util.APIResponse "Invalid coordinates"
// @Router       /session/geolocation [post]
func UpdateGeolocation(c *gin.Context) {
	trail, ok := ensureTrail(c)
	if !ok {
		return
	}

	var req audit.Coordinates
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid request body", Err: err})
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid coordinates", Err: errCoordinates})
		return
	}

	trail.Session.UpdateGeolocation(req)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Geolocation updated", Data: trail.Session.Snapshot()})
}
