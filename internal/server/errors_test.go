package server

import (
	"net/http"
	"testing"

	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	invoicedomain "github.com/praxislegal/praxis/internal/invoice/domain"
	ratecarddomain "github.com/praxislegal/praxis/internal/ratecard/domain"
	timesheetdomain "github.com/praxislegal/praxis/internal/timesheet/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErrorValidation(t *testing.T) {
	status, payload := mapError(currencydomain.ErrUnsupportedCurrency)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", payload.Type)
	if assert.Len(t, payload.Errors, 1) {
		assert.Equal(t, "unsupported_currency", payload.Errors[0].Code)
	}

	status, payload = mapError(timesheetdomain.ErrZeroDuration)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "zero_duration_entry", payload.Errors[0].Code)

	status, payload = mapError(newValidationError("amount", "invalid_amount", "invalid amount"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "amount", payload.Errors[0].Field)
}

func TestMapErrorFieldDerivation(t *testing.T) {
	_, payload := mapError(invoicedomain.ErrInvalidClientID)
	if assert.Len(t, payload.Errors, 1) {
		assert.Equal(t, "client_id", payload.Errors[0].Field)
		assert.Equal(t, "invalid_client_id", payload.Errors[0].Code)
	}
}

func TestMapErrorNotFound(t *testing.T) {
	for _, err := range []error{
		invoicedomain.ErrInvoiceNotFound,
		ratecarddomain.ErrNotFound,
		ratecarddomain.ErrNoEffectiveRate,
		gorm.ErrRecordNotFound,
	} {
		status, payload := mapError(err)
		assert.Equal(t, http.StatusNotFound, status, err.Error())
		assert.Equal(t, "not_found", payload.Type)
	}
}

func TestMapErrorConflict(t *testing.T) {
	for _, err := range []error{
		invoicedomain.ErrInvoiceNotDraft,
		invoicedomain.ErrAlreadySplit,
		invoicedomain.ErrInvoiceVoided,
	} {
		status, _ := mapError(err)
		assert.Equal(t, http.StatusConflict, status, err.Error())
	}
}

func TestMapErrorForbidden(t *testing.T) {
	status, payload := mapError(timesheetdomain.ErrApprovalDenied)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", payload.Type)
}

func TestMapErrorServiceUnavailable(t *testing.T) {
	status, _ := mapError(currencydomain.ErrConversionFailed)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestClassifyErrorForLog(t *testing.T) {
	errType, code := classifyErrorForLog(invoicedomain.ErrOverpayment)
	assert.Equal(t, "validation_error", errType)
	assert.Equal(t, "payment_exceeds_balance", code)

	errType, code = classifyErrorForLog(invoicedomain.ErrInvoiceNotFound)
	assert.Equal(t, "not_found", errType)
	assert.Equal(t, "invoice_not_found", code)

	errType, code = classifyErrorForLog(assert.AnError)
	assert.Equal(t, "internal_error", errType)
	assert.Equal(t, "internal_error", code)
}
