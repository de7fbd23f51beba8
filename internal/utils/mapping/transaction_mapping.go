package mapping

import (
	"github.com/retailsuite/finance-ledger/internal/core/domain"
	"github.com/retailsuite/finance-ledger/internal/models"
)

// ToModelTransaction converts a domain FinanceTransaction to its model
func ToModelTransaction(d domain.FinanceTransaction) models.FinanceTransaction {
	return models.FinanceTransaction{
		TransactionID:     d.TransactionID,
		TransactionNumber: d.TransactionNumber,
		TransactionDate:   d.TransactionDate,
		TransactionType:   models.TransactionType(d.TransactionType),
		AccountID:         d.AccountID,
		Category:          d.Category,
		Subcategory:       d.Subcategory,
		Amount:            d.Amount,
		Description:       d.Description,
		ReferenceType:     string(d.ReferenceType),
		ReferenceID:       d.ReferenceID,
		PaymentMethod:     d.PaymentMethod,
		ContactName:       d.ContactName,
		Status:            string(d.Status),
		IsActive:          d.IsActive,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model FinanceTransaction to its domain form
func ToDomainTransaction(m models.FinanceTransaction) domain.FinanceTransaction {
	return domain.FinanceTransaction{
		TransactionID:     m.TransactionID,
		TransactionNumber: m.TransactionNumber,
		TransactionDate:   m.TransactionDate,
		TransactionType:   domain.TransactionType(m.TransactionType),
		AccountID:         m.AccountID,
		Category:          m.Category,
		Subcategory:       m.Subcategory,
		Amount:            m.Amount,
		Description:       m.Description,
		ReferenceType:     domain.ReferenceType(m.ReferenceType),
		ReferenceID:       m.ReferenceID,
		PaymentMethod:     m.PaymentMethod,
		ContactName:       m.ContactName,
		Status:            domain.TransactionStatus(m.Status),
		IsActive:          m.IsActive,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model transactions
func ToDomainTransactionSlice(ms []models.FinanceTransaction) []domain.FinanceTransaction {
	ds := make([]domain.FinanceTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
