package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/awrgmu/mixcheckin/core"
)

// Register mounts every API route.
func Register(r gin.IRouter, svc *core.CheckInService, ledger *core.Ledger) {
	api := r.Group("/api")
	{
		api.POST("/check_in/:lookup_key", CheckInHandler(svc))

		api.POST("/members/:member_id/workshop/:workshop_id", RecordAttendanceHandler(ledger))
		api.DELETE("/members/:member_id/workshop/:workshop_id", ReverseAttendanceHandler(ledger))

		api.GET("/workshops", ListWorkshopsHandler(ledger))
		api.POST("/workshops", CreateWorkshopHandler(ledger))
		api.DELETE("/workshops/:workshop_id", DeleteWorkshopHandler(ledger))
	}
}
