package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	interactiondomain "github.com/praxislegal/praxis/internal/interaction/domain"
)

func (s *Server) CreateInteraction(c *gin.Context) {
	var req interactiondomain.CreateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	interaction, err := s.interactionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": interaction})
}

func (s *Server) ListInteractions(c *gin.Context) {
	var req interactiondomain.ListInteractionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	interactions, err := s.interactionSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": interactions})
}

func (s *Server) DeleteInteraction(c *gin.Context) {
	if err := s.interactionSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
