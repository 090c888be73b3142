package endpoint

import (
	"github.com/ariebrainware/coffee-brokerage/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every handler on r. Record writes are rate limited
// with limits; activity and click ingestion never are.
func RegisterRoutes(r gin.IRouter, limits middleware.RateLimitConfig) {
	limiter := middleware.RateLimiter(limits)

	r.GET("/client", ListClients)
	r.POST("/client", limiter, CreateClient)
	r.GET("/client/:id", GetClient)
	r.PUT("/client/:id", limiter, UpdateClient)
	r.DELETE("/client/:id", limiter, DeleteClient)

	r.GET("/company", GetCompany)
	r.PUT("/company", limiter, SaveCompany)

	r.GET("/contract", ListContracts)
	r.POST("/contract", limiter, CreateContract)
	r.GET("/contract/:id", GetContract)
	r.PATCH("/contract/:id/status", limiter, UpdateContractStatus)
	r.DELETE("/contract/:id", limiter, DeleteContract)
	r.GET("/contract/:id/document", ContractDocument)

	r.GET("/session", GetSession)
	r.PATCH("/session", UpdateSession)
	r.POST("/session/geolocation", UpdateGeolocation)

	r.POST("/activity", RecordActivity)
	r.POST("/interaction/click", RecordClick)

	r.GET("/logs", ListLogs)
}
