package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/praxislegal/praxis/internal/client/domain"
	contactdomain "github.com/praxislegal/praxis/internal/contact/domain"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	interactiondomain "github.com/praxislegal/praxis/internal/interaction/domain"
	"github.com/praxislegal/praxis/internal/invoice/aggregate"
	invoicedomain "github.com/praxislegal/praxis/internal/invoice/domain"
	leaddomain "github.com/praxislegal/praxis/internal/lead/domain"
	opportunitydomain "github.com/praxislegal/praxis/internal/opportunity/domain"
	partnersharedomain "github.com/praxislegal/praxis/internal/partnershare/domain"
	ratecarddomain "github.com/praxislegal/praxis/internal/ratecard/domain"
	timesheetdomain "github.com/praxislegal/praxis/internal/timesheet/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, timesheetdomain.ErrApprovalDenied):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, currencydomain.ErrConversionFailed):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isCurrencyValidationError(err),
		isRateCardValidationError(err),
		isTimesheetValidationError(err),
		isInvoiceValidationError(err),
		isPartnerShareValidationError(err),
		isCRMValidationError(err):
		return true
	default:
		return false
	}
}

func isCurrencyValidationError(err error) bool {
	switch {
	case errors.Is(err, currencydomain.ErrUnsupportedCurrency),
		errors.Is(err, currencydomain.ErrCurrencyMismatch),
		errors.Is(err, currencydomain.ErrInvalidRate):
		return true
	default:
		return false
	}
}

func isRateCardValidationError(err error) bool {
	switch {
	case errors.Is(err, ratecarddomain.ErrInvalidFirm),
		errors.Is(err, ratecarddomain.ErrInvalidUser),
		errors.Is(err, ratecarddomain.ErrInvalidServiceType),
		errors.Is(err, ratecarddomain.ErrInvalidRateRange),
		errors.Is(err, ratecarddomain.ErrInvalidCurrency),
		errors.Is(err, ratecarddomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isTimesheetValidationError(err error) bool {
	switch {
	case errors.Is(err, timesheetdomain.ErrInvalidFirm),
		errors.Is(err, timesheetdomain.ErrInvalidUser),
		errors.Is(err, timesheetdomain.ErrInvalidMatter),
		errors.Is(err, timesheetdomain.ErrInvalidID),
		errors.Is(err, timesheetdomain.ErrZeroDuration),
		errors.Is(err, timesheetdomain.ErrNegativeMinutes),
		errors.Is(err, timesheetdomain.ErrInvalidCurrency),
		errors.Is(err, timesheetdomain.ErrRateOutOfRange),
		errors.Is(err, timesheetdomain.ErrInvalidExpense):
		return true
	default:
		return false
	}
}

func isInvoiceValidationError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrInvalidFirm),
		errors.Is(err, invoicedomain.ErrInvalidInvoiceID),
		errors.Is(err, invoicedomain.ErrInvalidClientID),
		errors.Is(err, invoicedomain.ErrInvalidPeriod),
		errors.Is(err, invoicedomain.ErrNoBillableEntries),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, invoicedomain.ErrSplitAmountMismatch),
		errors.Is(err, invoicedomain.ErrPaymentCurrency),
		errors.Is(err, invoicedomain.ErrOverpayment),
		errors.Is(err, aggregate.ErrNegativeFinalAmount),
		errors.Is(err, aggregate.ErrInvalidDiscountValue):
		return true
	default:
		return false
	}
}

func isPartnerShareValidationError(err error) bool {
	switch {
	case errors.Is(err, partnersharedomain.ErrInvalidFirm),
		errors.Is(err, partnersharedomain.ErrInvalidInvoiceID),
		errors.Is(err, partnersharedomain.ErrInvalidUser),
		errors.Is(err, partnersharedomain.ErrInvalidPercentage):
		return true
	default:
		return false
	}
}

func isCRMValidationError(err error) bool {
	switch {
	case errors.Is(err, leaddomain.ErrInvalidFirm),
		errors.Is(err, leaddomain.ErrInvalidID),
		errors.Is(err, leaddomain.ErrInvalidName),
		errors.Is(err, leaddomain.ErrInvalidStatus),
		errors.Is(err, clientdomain.ErrInvalidFirm),
		errors.Is(err, clientdomain.ErrInvalidID),
		errors.Is(err, clientdomain.ErrInvalidName),
		errors.Is(err, clientdomain.ErrInvalidEmail),
		errors.Is(err, clientdomain.ErrInvalidMatter),
		errors.Is(err, contactdomain.ErrInvalidFirm),
		errors.Is(err, contactdomain.ErrInvalidID),
		errors.Is(err, contactdomain.ErrInvalidName),
		errors.Is(err, opportunitydomain.ErrInvalidFirm),
		errors.Is(err, opportunitydomain.ErrInvalidID),
		errors.Is(err, opportunitydomain.ErrInvalidTitle),
		errors.Is(err, opportunitydomain.ErrInvalidStage),
		errors.Is(err, opportunitydomain.ErrInvalidValue),
		errors.Is(err, interactiondomain.ErrInvalidFirm),
		errors.Is(err, interactiondomain.ErrInvalidID),
		errors.Is(err, interactiondomain.ErrInvalidKind),
		errors.Is(err, interactiondomain.ErrInvalidSubject),
		errors.Is(err, interactiondomain.ErrMissingTarget):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, invoicedomain.ErrInvoiceNotDraft),
		errors.Is(err, invoicedomain.ErrAlreadySplit),
		errors.Is(err, invoicedomain.ErrInvoiceVoided):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ratecarddomain.ErrNotFound),
		errors.Is(err, ratecarddomain.ErrNoEffectiveRate),
		errors.Is(err, timesheetdomain.ErrNotFound),
		errors.Is(err, timesheetdomain.ErrExpenseNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, partnersharedomain.ErrInvoiceNotFound),
		errors.Is(err, leaddomain.ErrNotFound),
		errors.Is(err, clientdomain.ErrNotFound),
		errors.Is(err, contactdomain.ErrNotFound),
		errors.Is(err, opportunitydomain.ErrNotFound),
		errors.Is(err, interactiondomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog feeds the request logger with a coarse error type and
// the stable domain code without leaking message internals.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	if vErr := asValidationErrors(err); vErr != nil {
		code := "invalid_request"
		if len(vErr.Errors) > 0 {
			code = vErr.Errors[0].Code
		}
		return "validation_error", code
	}
	switch {
	case isValidationError(err):
		return "validation_error", validationErrorCode(err)
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized", "unauthorized"
	case errors.Is(err, ErrForbidden), errors.Is(err, timesheetdomain.ErrApprovalDenied):
		return "forbidden", err.Error()
	case isConflictError(err):
		return "conflict", err.Error()
	case isNotFoundError(err):
		return "not_found", err.Error()
	case errors.Is(err, ErrServiceUnavailable), errors.Is(err, currencydomain.ErrConversionFailed):
		return "service_unavailable", err.Error()
	default:
		return "internal_error", "internal_error"
	}
}
