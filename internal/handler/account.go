package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/finware/ledgerd/internal/auth"
	"github.com/finware/ledgerd/internal/domain"
	"github.com/finware/ledgerd/internal/logging"
)

type accountEngine interface {
	Statement(ctx context.Context, token string) (*domain.Account, error)
	Balance(ctx context.Context, token string) (int64, error)
}

type AccountHandler struct {
	engine accountEngine
}

func NewAccountHandler(engine accountEngine) *AccountHandler {
	return &AccountHandler{engine: engine}
}

type transactionDTO struct {
	ID           uuid.UUID `json:"id"`
	Kind         string    `json:"kind"`
	Amount       int64     `json:"amount"`
	Counterparty string    `json:"counterparty,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type statementResponse struct {
	UserID       string           `json:"user_id"`
	DisplayName  string           `json:"display_name"`
	Transactions []transactionDTO `json:"transactions"`
}

func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	acct, err := h.engine.Statement(r.Context(), token)
	if err != nil {
		logging.FromContext(r.Context()).Error("statement failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, len(acct.Transactions))
	for i, tx := range acct.Transactions {
		dtos[i] = transactionDTO{
			ID:           tx.ID,
			Kind:         string(tx.Kind),
			Amount:       tx.Amount,
			Counterparty: tx.Counterparty,
			CreatedAt:    tx.CreatedAt,
		}
	}

	RespondSuccess(w, http.StatusOK, statementResponse{
		UserID:       acct.UserID,
		DisplayName:  acct.DisplayName,
		Transactions: dtos,
	})
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	balance, err := h.engine.Balance(r.Context(), token)
	if err != nil {
		logging.FromContext(r.Context()).Error("balance read failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, balanceResponse{Balance: balance})
}
