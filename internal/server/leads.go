package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	leaddomain "github.com/praxislegal/praxis/internal/lead/domain"
)

func (s *Server) CreateLead(c *gin.Context) {
	var req leaddomain.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	lead, err := s.leadSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lead})
}

func (s *Server) ListLeads(c *gin.Context) {
	var req leaddomain.ListLeadRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetLead(c *gin.Context) {
	lead, err := s.leadSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lead})
}

func (s *Server) UpdateLead(c *gin.Context) {
	var req leaddomain.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	lead, err := s.leadSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lead})
}

func (s *Server) DeleteLead(c *gin.Context) {
	if err := s.leadSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
