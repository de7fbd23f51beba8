package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailsuite/finance-ledger/internal/apperrors"
	"github.com/retailsuite/finance-ledger/internal/core/domain"
	portssvc "github.com/retailsuite/finance-ledger/internal/core/ports/services"
	"github.com/retailsuite/finance-ledger/internal/dto"
	"github.com/retailsuite/finance-ledger/internal/middleware"
)

// transactionHandler handles reads plus the reference-addressed operations
// producer modules call when a source record is edited or deleted.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newTransactionHandler(ls portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{ledgerService: ls}
}

// registerTransactionRoutes registers routes related to finance transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("/:id", h.getTransaction)
		transactions.GET("", h.listTransactions)
		transactions.PATCH("/reference/:referenceType/:referenceID", h.patchByReference)
		transactions.DELETE("/reference/:referenceType/:referenceID", h.reverseByReference)
	}
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
		} else {
			logger.Error("Failed to get transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves a paginated list of transactions, newest first
// @Tags transactions
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	txns, err := h.ledgerService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns)})
}

// patchByReference godoc
// @Summary Patch the active transaction for a reference
// @Description Updates non-financial fields of the active transaction for (referenceType, referenceID). Amount and account are never modified.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   referenceType path string true "Reference type" Enums(INVOICE, BILL, ORDER, MANUAL, OTHER)
// @Param   referenceID path string true "Reference ID"
// @Param   patch body dto.TransactionPatch true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Success 204 "No active transaction for the reference"
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to patch transaction"
// @Security BearerAuth
// @Router /transactions/reference/{referenceType}/{referenceID} [patch]
func (h *transactionHandler) patchByReference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	refType := domain.ReferenceType(c.Param("referenceType"))
	refID := c.Param("referenceID")

	var patch dto.TransactionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.ledgerService.PatchByReference(c.Request.Context(), refType, refID, patch, userID)
	if err != nil {
		logger.Error("Failed to patch transaction by reference",
			slog.String("error", err.Error()),
			slog.String("reference_type", string(refType)),
			slog.String("reference_id", refID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to patch transaction"})
		return
	}
	if txn == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// reverseByReference godoc
// @Summary Reverse the active transaction for a reference
// @Description Applies the inverse balance effect and cancels the active transaction for (referenceType, referenceID). Returns reversed=false when none exists.
// @Tags transactions
// @Produce  json
// @Param   referenceType path string true "Reference type" Enums(INVOICE, BILL, ORDER, MANUAL, OTHER)
// @Param   referenceID path string true "Reference ID"
// @Success 200 {object} dto.ReversalResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to reverse transaction"
// @Security BearerAuth
// @Router /transactions/reference/{referenceType}/{referenceID} [delete]
func (h *transactionHandler) reverseByReference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	refType := domain.ReferenceType(c.Param("referenceType"))
	refID := c.Param("referenceID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	reversed, err := h.ledgerService.Reverse(c.Request.Context(), refType, refID, userID)
	if err != nil {
		logger.Error("Failed to reverse transaction by reference",
			slog.String("error", err.Error()),
			slog.String("reference_type", string(refType)),
			slog.String("reference_id", refID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to reverse transaction"})
		return
	}

	c.JSON(http.StatusOK, dto.ReversalResponse{Reversed: reversed})
}
