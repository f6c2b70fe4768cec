package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hearth/internal/errors"
	"hearth/internal/models"
	"hearth/internal/pagination"
	"hearth/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createFn func(userID uint, txType models.TransactionType, amount int64, categoryID, categoryLabel string, occurredAt *time.Time, description string) (*models.Transaction, error)
	listFn   func(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getFn    func(userID, transactionID uint) (*models.Transaction, error)
	updateFn func(userID, transactionID uint, description, categoryID, categoryLabel *string) (*models.Transaction, error)
	deleteFn func(userID, transactionID uint) error
}

func (m *mockTransactionService) CreateTransaction(userID uint, txType models.TransactionType, amount int64, categoryID, categoryLabel string, occurredAt *time.Time, description string) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(userID, txType, amount, categoryID, categoryLabel, occurredAt, description)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.listFn != nil {
		return m.listFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	if m.getFn != nil {
		return m.getFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID uint, description, categoryID, categoryLabel *string) (*models.Transaction, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, transactionID, description, categoryID, categoryLabel)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, transactionID)
	}
	return nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/:id", handler.GetTransactionByID)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockTransactionService{
			createFn: func(_ uint, txType models.TransactionType, amount int64, _, label string, _ *time.Time, _ string) (*models.Transaction, error) {
				return &models.Transaction{
					Base:          models.Base{ID: 1},
					UserID:        1,
					Type:          txType,
					Amount:        amount,
					CategoryID:    "groceries",
					CategoryLabel: label,
				}, nil
			},
		}
		handler := NewTransactionHandler(svc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"expense","amount":1200,"category_label":"Groceries"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		if tx["category_id"] != "groceries" {
			t.Errorf("expected resolved category, got %v", tx["category_id"])
		}
	})

	t.Run("returns 400 on bad type", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"type":"transfer","amount":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on unknown explicit category", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"expense","amount":100,"category_id":"no_such_category"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("parses filters from query", func(t *testing.T) {
		var captured services.TransactionFilter
		svc := &mockTransactionService{
			listFn: func(_ uint, _ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				captured = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(svc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET",
			"/transactions?type=expense&category_id=groceries&from=2026-07-01T00:00:00Z&to=2026-08-01T00:00:00Z", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Type == nil || *captured.Type != models.TransactionTypeExpense {
			t.Error("expected type filter")
		}
		if captured.CategoryID == nil || *captured.CategoryID != "groceries" {
			t.Error("expected category filter")
		}
		if captured.FromDate == nil || captured.ToDate == nil {
			t.Error("expected date window filters")
		}
	})

	t.Run("rejects bad type filter", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?type=transfer", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_Delete(t *testing.T) {
	t.Run("returns 204", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "DELETE", "/transactions/1", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockTransactionService{
			deleteFn: func(_, _ uint) error { return apperrors.ErrTransactionNotFound },
		}
		handler := NewTransactionHandler(svc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "DELETE", "/transactions/99", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}
