package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailsuite/finance-ledger/internal/apperrors"
	portssvc "github.com/retailsuite/finance-ledger/internal/core/ports/services"
	"github.com/retailsuite/finance-ledger/internal/dto"
	"github.com/retailsuite/finance-ledger/internal/middleware"
)

// eventHandler exposes the inbound producer event endpoints.
type eventHandler struct {
	eventService portssvc.EventSvcFacade
}

func newEventHandler(es portssvc.EventSvcFacade) *eventHandler {
	return &eventHandler{eventService: es}
}

// registerEventRoutes registers the producer event endpoints.
func registerEventRoutes(rg *gin.RouterGroup, eventService portssvc.EventSvcFacade) {
	h := newEventHandler(eventService)

	events := rg.Group("/events")
	{
		events.POST("/sale-completed", h.saleCompleted)
		events.POST("/purchase-paid", h.purchasePaid)
		events.POST("/invoice-payment", h.invoicePayment)
		events.POST("/expense-recorded", h.expenseRecorded)
	}
}

// respondEventError maps adapter errors to HTTP responses. Validation errors
// (missing or non-positive amount) are client errors; everything downstream
// of validation, a missing role account included, surfaces as a 500 with the
// message so the producer sees the posting failed.
func respondEventError(c *gin.Context, err error, event string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if errors.Is(err, apperrors.ErrValidation) {
		logger.Warn("Event rejected by validation",
			slog.String("event", event),
			slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	logger.Error("Event posting failed",
		slog.String("event", event),
		slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

// eventUserID extracts the authenticated caller.
func eventUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return userID, ok
}

// saleCompleted godoc
// @Summary Record a completed sale
// @Description Posts income to the cash or bank account for a completed point-of-sale transaction.
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.SaleCompletedRequest true "Sale event"
// @Success 200 {object} dto.PostingResultResponse
// @Failure 400 {object} ErrorResponse "Missing or non-positive amount"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Posting failed"
// @Security BearerAuth
// @Router /events/sale-completed [post]
func (h *eventHandler) saleCompleted(c *gin.Context) {
	var req dto.SaleCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := eventUserID(c)
	if !ok {
		return
	}

	result, err := h.eventService.HandleSaleCompleted(c.Request.Context(), req, userID)
	if err != nil {
		respondEventError(c, err, "sale-completed")
		return
	}

	c.JSON(http.StatusOK, result)
}

// purchasePaid godoc
// @Summary Record a paid purchase order
// @Description Posts an expense to the cash or bank account. Orders whose payment status is not "paid" are acknowledged with skipped=true and no posting happens.
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.PurchasePaidRequest true "Purchase event"
// @Success 200 {object} dto.PostingResultResponse
// @Failure 400 {object} ErrorResponse "Missing or non-positive amount"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Posting failed"
// @Security BearerAuth
// @Router /events/purchase-paid [post]
func (h *eventHandler) purchasePaid(c *gin.Context) {
	var req dto.PurchasePaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := eventUserID(c)
	if !ok {
		return
	}

	result, err := h.eventService.HandlePurchasePaid(c.Request.Context(), req, userID)
	if err != nil {
		respondEventError(c, err, "purchase-paid")
		return
	}

	c.JSON(http.StatusOK, result)
}

// invoicePayment godoc
// @Summary Record a payment received against an invoice
// @Description Posts income to the cash or bank account for an invoice payment. The response lists exactly the accounts whose balances changed.
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.InvoicePaymentRequest true "Invoice payment event"
// @Success 200 {object} dto.InvoicePaymentResponse
// @Failure 400 {object} ErrorResponse "Missing or non-positive amount"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Posting failed"
// @Security BearerAuth
// @Router /events/invoice-payment [post]
func (h *eventHandler) invoicePayment(c *gin.Context) {
	var req dto.InvoicePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := eventUserID(c)
	if !ok {
		return
	}

	result, err := h.eventService.HandleInvoicePayment(c.Request.Context(), req, userID)
	if err != nil {
		respondEventError(c, err, "invoice-payment")
		return
	}

	c.JSON(http.StatusOK, result)
}

// expenseRecorded godoc
// @Summary Record an expense
// @Description Posts an expense to the cash or bank account for a directly recorded expense.
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.ExpenseRecordedRequest true "Expense event"
// @Success 200 {object} dto.PostingResultResponse
// @Failure 400 {object} ErrorResponse "Missing or non-positive amount"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Posting failed"
// @Security BearerAuth
// @Router /events/expense-recorded [post]
func (h *eventHandler) expenseRecorded(c *gin.Context) {
	var req dto.ExpenseRecordedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := eventUserID(c)
	if !ok {
		return
	}

	result, err := h.eventService.HandleExpenseRecorded(c.Request.Context(), req, userID)
	if err != nil {
		respondEventError(c, err, "expense-recorded")
		return
	}

	c.JSON(http.StatusOK, result)
}
