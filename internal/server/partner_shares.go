package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	partnersharedomain "github.com/praxislegal/praxis/internal/partnershare/domain"
)

func (s *Server) SetPartnerShares(c *gin.Context) {
	var req partnersharedomain.SetSharesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	shares, err := s.partnerShareSvc.Set(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": shares})
}

func (s *Server) ListPartnerShares(c *gin.Context) {
	shares, err := s.partnerShareSvc.List(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": shares})
}

func (s *Server) PartnerShareReport(c *gin.Context) {
	report, err := s.partnerShareSvc.Report(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}
