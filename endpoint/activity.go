package endpoint

import (
	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/ariebrainware/coffee-brokerage/util"
	"github.com/gin-gonic/gin"
)

type activityRequest struct {
	Type string `json:"type" example:"pointerdown"`
}

// RecordActivity godoc
// @Summary      Report a user activity signal
// @Description  Refreshes the session's last activity. A gap of five minutes or more since the previous activity is logged as an inactivity entry, which is returned in data.
// @Tags         Activity
// @Accept       json
// @Produce      json
// @Param        activity body activityRequest true "Signal: pointerdown, mousedown, keydown, scroll or touchstart"
// @Success      200 {object} util.APIResponse{data=audit.SystemLog} "Activity recorded"
// @Failure      400 {object} util.APIResponse "Unknown signal"
// @Router       /activity [post]
func RecordActivity(c *gin.Context) {
	trail, ok := ensureTrail(c)
	if !ok {
		return
	}

	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid request body", Err: err})
		return
	}
	entry, err := trail.Activity.Observe(c.Request.Context(), audit.Signal(req.Type))
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Unknown activity signal", Err: err})
		return
	}

	var data interface{} = map[string]interface{}{}
	if entry != nil {
		data = entry
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Activity recorded", Data: data})
}

// RecordClick godoc
// @Summary      Report a click
// @Description  Every click is stored as an interaction entry.
// @Tags         Activity
// @Accept       json
// @Produce      json
// @Param        target body audit.ClickTarget true "Clicked element"
// @Success      200 {object} util.APIResponse{data=audit.SystemLog} "Click recorded"
// @Failure      400 {object} util.APIResponse "Invalid body"
// @Router       /interaction/click [post]
func RecordClick(c *gin.Context) {
	trail, ok := ensureTrail(c)
	if !ok {
		return
	}

	var target audit.ClickTarget
	if err := c.ShouldBindJSON(&target); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid request body", Err: err})
		return
	}

	entry := trail.Interactions.Click(c.Request.Context(), target)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Click recorded", Data: entry})
}
