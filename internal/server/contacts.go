package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	contactdomain "github.com/praxislegal/praxis/internal/contact/domain"
)

func (s *Server) CreateContact(c *gin.Context) {
	var req contactdomain.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	contact, err := s.contactSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": contact})
}

func (s *Server) ListContacts(c *gin.Context) {
	var req contactdomain.ListContactRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	contacts, err := s.contactSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": contacts})
}

func (s *Server) GetContact(c *gin.Context) {
	contact, err := s.contactSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": contact})
}

func (s *Server) UpdateContact(c *gin.Context) {
	var req contactdomain.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	contact, err := s.contactSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": contact})
}

func (s *Server) DeleteContact(c *gin.Context) {
	if err := s.contactSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
