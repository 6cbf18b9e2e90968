package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
)

type convertCurrencyRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	From   string          `json:"from" binding:"required"`
	To     string          `json:"to" binding:"required"`
}

func (s *Server) ConvertCurrency(c *gin.Context) {
	var req convertCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from := currencydomain.Code(strings.ToUpper(strings.TrimSpace(req.From)))
	to := currencydomain.Code(strings.ToUpper(strings.TrimSpace(req.To)))

	resp, err := s.currencySvc.Convert(c.Request.Context(), currencydomain.ConvertRequest{
		Amount: req.Amount,
		From:   from,
		To:     to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordConversion(c.Request.Context(), string(from), string(to))
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetExchangeRate(c *gin.Context) {
	from := currencydomain.Code(strings.ToUpper(strings.TrimSpace(c.Query("from"))))
	to := currencydomain.Code(strings.ToUpper(strings.TrimSpace(c.Query("to"))))
	if from == "" || to == "" {
		AbortWithError(c, newValidationError("from", "invalid_currency", "from and to are required"))
		return
	}

	rate, err := s.currencySvc.Rate(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rate})
}

func (s *Server) ListCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.currencySvc.SupportedCurrencies()})
}
