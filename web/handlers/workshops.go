package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/awrgmu/mixcheckin/core"
	"github.com/awrgmu/mixcheckin/web/common"
)

// ListWorkshopsHandler lists workshops so staff can select one to check
// students in for.
func ListWorkshopsHandler(ledger *core.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		workshops, err := ledger.ListWorkshops(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse("DBError"))
			return
		}
		c.JSON(http.StatusOK, workshops)
	}
}

func CreateWorkshopHandler(ledger *core.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form CreateWorkshopForm
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		if _, err := ledger.CreateWorkshop(c.Request.Context(), form.Name); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse("DBError"))
			return
		}
		c.Status(http.StatusCreated)
	}
}

// DeleteWorkshopHandler shallow-deletes a workshop.
func DeleteWorkshopHandler(ledger *core.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		workshopID, err := uuid.Parse(c.Param("workshop_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("workshop_id must be a UUID"))
			return
		}

		if err := ledger.DeleteWorkshop(c.Request.Context(), workshopID.String()); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse("DBError"))
			return
		}
		c.Status(http.StatusNoContent)
	}
}
