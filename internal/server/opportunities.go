package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	opportunitydomain "github.com/praxislegal/praxis/internal/opportunity/domain"
)

func (s *Server) CreateOpportunity(c *gin.Context) {
	var req opportunitydomain.CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	opp, err := s.opportunitySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": opp})
}

func (s *Server) ListOpportunities(c *gin.Context) {
	var req opportunitydomain.ListOpportunityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	opps, err := s.opportunitySvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": opps})
}

func (s *Server) GetOpportunity(c *gin.Context) {
	opp, err := s.opportunitySvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": opp})
}

func (s *Server) UpdateOpportunity(c *gin.Context) {
	var req opportunitydomain.UpdateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	opp, err := s.opportunitySvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": opp})
}

func (s *Server) DeleteOpportunity(c *gin.Context) {
	if err := s.opportunitySvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
