package endpoint

import (
	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/ariebrainware/coffee-brokerage/util"
	"github.com/gin-gonic/gin"
)

type logView struct {
	audit.SystemLog
	SessionDuration string `json:"sessionDuration"`
}

type logPage struct {
	Total int       `json:"total"`
	Logs  []logView `json:"logs"`
}

// ListLogs godoc
// @Summary      List system logs
// @Description  Returns audit entries newest first. sessionDuration is the time from session start to the entry, as "Xh Ym".
// @Tags         Logs
// @Produce      json
// @Param        limit query int false "Limit number of results" default(100)
// @Param        offset query int false "Offset for pagination" default(0)
// @Success      200 {object} util.APIResponse{data=logPage} "Logs retrieved"
// @Router       /logs [get]
func ListLogs(c *gin.Context) {
	trail, ok := ensureTrail(c)
	if !ok {
		return
	}
	limit, offset := paginationParams(c, 100)

	entries := trail.Logs.List(offset, limit)
	views := make([]logView, 0, len(entries))
	for _, e := range entries {
		views = append(views, logView{SystemLog: e, SessionDuration: util.FormatDuration(e.SessionDuration())})
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Logs retrieved",
		Data: logPage{Total: trail.Logs.Len(), Logs: views},
	})
}
