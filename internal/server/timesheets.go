package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	timesheetdomain "github.com/praxislegal/praxis/internal/timesheet/domain"
)

func (s *Server) CreateTimesheetEntry(c *gin.Context) {
	var req timesheetdomain.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entry, err := s.timesheetSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) ListTimesheetEntries(c *gin.Context) {
	var query struct {
		UserID   string `form:"user_id"`
		MatterID string `form:"matter_id"`
		DateFrom string `form:"date_from"`
		DateTo   string `form:"date_to"`
		Status   string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dateFrom, err := parseOptionalTime(query.DateFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("date_from", "invalid_date_from", "invalid date_from"))
		return
	}
	dateTo, err := parseOptionalTime(query.DateTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("date_to", "invalid_date_to", "invalid date_to"))
		return
	}

	var status *timesheetdomain.EntryStatus
	if trimmed := strings.ToUpper(strings.TrimSpace(query.Status)); trimmed != "" {
		typed := timesheetdomain.EntryStatus(trimmed)
		status = &typed
	}

	resp, err := s.timesheetSvc.List(c.Request.Context(), timesheetdomain.ListEntryRequest{
		UserID:   strings.TrimSpace(query.UserID),
		MatterID: strings.TrimSpace(query.MatterID),
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Status:   status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTimesheetEntry(c *gin.Context) {
	entry, err := s.timesheetSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) ApproveTimesheetEntry(c *gin.Context) {
	entry, err := s.timesheetSvc.Approve(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) RejectTimesheetEntry(c *gin.Context) {
	entry, err := s.timesheetSvc.Reject(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

type setExpenseInclusionRequest struct {
	Updates []timesheetdomain.ExpenseInclusionUpdate `json:"updates" binding:"required"`
}

func (s *Server) SetExpenseInclusion(c *gin.Context) {
	var req setExpenseInclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entry, err := s.timesheetSvc.SetExpenseInclusion(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Updates)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}
