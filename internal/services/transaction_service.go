package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"hearth/internal/category"
	apperrors "hearth/internal/errors"
	"hearth/internal/models"
	"hearth/internal/pagination"
)

// transactionService handles transaction CRUD. Category resolution happens
// at write time so stored records always carry a canonical category id.
type transactionService struct {
	db       *gorm.DB
	resolver *category.Resolver
	overrun  OverrunNotifier
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, resolver *category.Resolver, overrun OverrunNotifier) TransactionServicer {
	return &transactionService{db: db, resolver: resolver, overrun: overrun}
}

// CreateTransaction validates, resolves the category, stores the record,
// then runs the overrun check inline. The overrun check never fails the
// already-committed write.
func (s *transactionService) CreateTransaction(
	userID uint,
	txType models.TransactionType,
	amount int64,
	categoryID, categoryLabel string,
	occurredAt *time.Time,
	description string,
) (*models.Transaction, error) {
	if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}

	transaction := &models.Transaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		CategoryID:    s.resolver.Resolve(categoryLabel, categoryID, txType),
		CategoryLabel: categoryLabel,
		OccurredAt:    occurredAt,
		RecordedAt:    time.Now().UTC(),
		Description:   description,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.overrun.TransactionRecorded(transaction)

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("recorded_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.FromDate != nil {
		q = q.Where(bucketExpr+" >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where(bucketExpr+" < ?", *f.ToDate)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction corrects the description and/or category of a stored
// record. Type, amount, and timestamps are immutable.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, description, categoryID, categoryLabel *string) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if description != nil {
		updates["description"] = *description
	}
	if categoryID != nil || categoryLabel != nil {
		label := transaction.CategoryLabel
		if categoryLabel != nil {
			label = *categoryLabel
			updates["category_label"] = label
		}
		explicit := ""
		if categoryID != nil {
			explicit = *categoryID
		}
		updates["category_id"] = s.resolver.Resolve(label, explicit, transaction.Type)
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return transaction, nil
}

// DeleteTransaction permanently removes a transaction. Derived views pick
// the deletion up on their next fetch; nothing is invalidated because
// nothing is cached.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
