package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awrgmu/mixcheckin/core"
	"github.com/awrgmu/mixcheckin/web/common"
)

// CheckInHandler checks a visitor in: looks up the card/ID number on
// Atrium and answers with an entry-tagged Allow or Disallow body. Upstream
// trouble degrades to Disallow; only the configurable extraction-error
// mode produces a non-2xx response.
func CheckInHandler(svc *core.CheckInService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.CheckIn(c.Request.Context(), c.Param("lookup_key"))
		if err != nil {
			c.JSON(http.StatusBadGateway, common.NewErrorResponse("ExtractionFailed"))
			return
		}

		if !result.Allowed {
			c.JSON(http.StatusOK, disallowResponse{Entry: "Disallow", HTML: result.HTML})
			return
		}

		workshops := result.Workshops
		if workshops == nil {
			workshops = []core.TakenWorkshop{}
		}
		c.JSON(http.StatusOK, allowResponse{
			Entry:     "Allow",
			Name:      result.Name,
			MemberID:  result.MemberID,
			Workshops: workshops,
		})
	}
}
