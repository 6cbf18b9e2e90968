package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	ratecarddomain "github.com/praxislegal/praxis/internal/ratecard/domain"
)

func (s *Server) CreateRateCard(c *gin.Context) {
	var req ratecarddomain.CreateRateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	card, err := s.rateCardSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": card})
}

func (s *Server) ListRateCards(c *gin.Context) {
	var query struct {
		UserID      string `form:"user_id"`
		ServiceType string `form:"service_type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rateCardSvc.List(c.Request.Context(), ratecarddomain.ListRateCardRequest{
		UserID:      strings.TrimSpace(query.UserID),
		ServiceType: strings.TrimSpace(query.ServiceType),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRateCard(c *gin.Context) {
	card, err := s.rateCardSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": card})
}

func (s *Server) UpdateRateCard(c *gin.Context) {
	var req ratecarddomain.UpdateRateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	card, err := s.rateCardSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil && req.IsActive != nil {
		direction := "activated"
		if !*req.IsActive {
			direction = "deactivated"
		}
		s.obsMetrics.RecordRateCardFlip(c.Request.Context(), direction)
	}

	c.JSON(http.StatusOK, gin.H{"data": card})
}

func (s *Server) DeleteRateCard(c *gin.Context) {
	if err := s.rateCardSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ResolveRate(c *gin.Context) {
	var query struct {
		UserID      string `form:"user_id"`
		ServiceType string `form:"service_type"`
		Date        string `form:"date"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseOptionalTime(query.Date, false)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
		return
	}
	resolveAt := time.Now().UTC()
	if date != nil {
		resolveAt = *date
	}

	card, err := s.rateCardSvc.Resolve(c.Request.Context(), ratecarddomain.ResolveRateRequest{
		UserID:      strings.TrimSpace(query.UserID),
		ServiceType: strings.TrimSpace(query.ServiceType),
		Date:        resolveAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": card})
}
