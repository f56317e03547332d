package orderserver

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	inventoryapp "github.com/Apurer/order-engine/internal/domains/inventory/application"
	inventorydomain "github.com/Apurer/order-engine/internal/domains/inventory/domain"
	inventoryports "github.com/Apurer/order-engine/internal/domains/inventory/ports"
	ordersapp "github.com/Apurer/order-engine/internal/domains/orders/application"
	ordersports "github.com/Apurer/order-engine/internal/domains/orders/ports"
	"github.com/Apurer/order-engine/internal/shared/auth"
	apierrors "github.com/Apurer/order-engine/internal/shared/errors"
)

const internalErrorDetail = "An internal server error occurred."

// ErrorResponder maps service errors onto problem responses.
type ErrorResponder struct {
	responder      *apierrors.ChainedResponder
	logger         *slog.Logger
	exposeInternal bool
}

// NewErrorResponder builds the responder. exposeInternal keeps raw error text
// in 500 responses and should only be set in development.
func NewErrorResponder(logger *slog.Logger, exposeInternal bool) *ErrorResponder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorResponder{
		responder: apierrors.NewChainedResponder("",
			mapAuthError,
			mapValidationError,
			mapStockError,
			mapNotFoundError,
			mapConflictError,
		),
		logger:         logger,
		exposeInternal: exposeInternal,
	}
}

var defaultErrorResponder = NewErrorResponder(nil, false)

func (r *ErrorResponder) orDefault() *ErrorResponder {
	if r == nil {
		return defaultErrorResponder
	}
	return r
}

// Respond writes err as a problem response. Unmapped errors are logged and
// answered with a generic 500.
func (r *ErrorResponder) Respond(c *gin.Context, err error) {
	if err == nil {
		return
	}
	r = r.orDefault()
	if problem, ok := r.responder.Map(err); ok {
		r.responder.Respond(c, problem)
		return
	}
	r.logger.ErrorContext(c.Request.Context(), "request failed",
		slog.String("path", c.FullPath()),
		slog.String("error", err.Error()))
	detail := internalErrorDetail
	if r.exposeInternal {
		detail = err.Error()
	}
	r.responder.Respond(c, apierrors.ErrInternal.WithDetail(detail))
}

// BadRequest reports a payload that could not be bound.
func (r *ErrorResponder) BadRequest(c *gin.Context, err error) {
	r.orDefault().responder.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
}

func mapAuthError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, auth.ErrUnauthorized) {
		return apierrors.ErrUnauthorized, true
	}
	return apierrors.ProblemDetail{}, false
}

func mapValidationError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, ordersapp.ErrInvalidInput) || errors.Is(err, inventoryapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapStockError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, inventorydomain.ErrInsufficientStock) {
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapNotFoundError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersports.ErrOrderNotFound):
		return apierrors.NewNotFoundProblem("order", err), true
	case errors.Is(err, ordersports.ErrAddressNotFound):
		return apierrors.NewNotFoundProblem("address", err), true
	case errors.Is(err, inventoryports.ErrProductNotFound):
		return apierrors.NewNotFoundProblem("product", err), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapConflictError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, ordersports.ErrIdempotencyConflict) {
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
