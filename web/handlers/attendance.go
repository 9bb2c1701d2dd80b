package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/awrgmu/mixcheckin/core"
	"github.com/awrgmu/mixcheckin/web/common"
)

// RecordAttendanceHandler records the fact a member took a workshop.
func RecordAttendanceHandler(ledger *core.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID, workshopID, ok := attendanceParams(c)
		if !ok {
			return
		}

		pair, err := ledger.RecordAttendance(c.Request.Context(), memberID, workshopID)
		if err != nil {
			status, code := attendanceError(err)
			c.JSON(status, common.NewErrorResponse(code))
			return
		}
		c.JSON(http.StatusOK, pair)
	}
}

// ReverseAttendanceHandler deletes the record of a member taking a
// workshop, keyed by the same pair.
func ReverseAttendanceHandler(ledger *core.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID, workshopID, ok := attendanceParams(c)
		if !ok {
			return
		}

		pair, err := ledger.ReverseAttendance(c.Request.Context(), memberID, workshopID)
		if err != nil {
			status, code := attendanceError(err)
			c.JSON(status, common.NewErrorResponse(code))
			return
		}
		c.JSON(http.StatusOK, pair)
	}
}

func attendanceParams(c *gin.Context) (memberID int, workshopID string, ok bool) {
	memberID, err := strconv.Atoi(c.Param("member_id"))
	if err != nil || memberID < 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("member_id must be a non-negative integer"))
		return 0, "", false
	}

	parsed, err := uuid.Parse(c.Param("workshop_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("workshop_id must be a UUID"))
		return 0, "", false
	}
	return memberID, parsed.String(), true
}

func attendanceError(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrAlreadyTaken):
		return http.StatusConflict, "AlreadyTaken"
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	default:
		return http.StatusInternalServerError, "DBError"
	}
}
