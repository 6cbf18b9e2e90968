package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/praxislegal/praxis/internal/invoice/domain"
)

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inv, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordInvoiceCreated(c.Request.Context(), "manual")
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) GenerateInvoice(c *gin.Context) {
	var req invoicedomain.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inv, err := s.invoiceSvc.Generate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordInvoiceCreated(c.Request.Context(), "generated")
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var req invoicedomain.ListInvoiceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoice(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req invoicedomain.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inv, err := s.invoiceSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) SplitInvoice(c *gin.Context) {
	var req invoicedomain.SplitInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Split(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordInvoiceCreated(c.Request.Context(), "split")
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req invoicedomain.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inv, err := s.invoiceSvc.RecordPayment(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordPayment(c.Request.Context(), string(req.Currency))
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) DownloadInvoiceDocument(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "html")))

	switch format {
	case "html":
		resp, err := s.invoiceSvc.Render(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if s.obsMetrics != nil {
			s.obsMetrics.RecordDocumentExport(c.Request.Context(), "html")
		}
		c.Header("Content-Disposition", `attachment; filename="invoice-`+id+`.doc"`)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(resp.RenderedHTML))
	case "pdf":
		doc, err := s.invoiceSvc.Document(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		reader, err := s.pdfProvider.GenerateDocument(c.Request.Context(), doc)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		body, err := io.ReadAll(reader)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if s.obsMetrics != nil {
			s.obsMetrics.RecordDocumentExport(c.Request.Context(), "pdf")
		}
		c.Header("Content-Disposition", `attachment; filename="invoice-`+id+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", body)
	default:
		AbortWithError(c, newValidationError("format", "invalid_format", "format must be html or pdf"))
	}
}
