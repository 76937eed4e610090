package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/finware/ledgerd/internal/auth"
	"github.com/finware/ledgerd/internal/ledger"
	"github.com/finware/ledgerd/internal/logging"
)

type transferEngine interface {
	Transfer(ctx context.Context, req ledger.TransferRequest) (*ledger.TransferResult, error)
	Loan(ctx context.Context, req ledger.LoanRequest) (int64, error)
}

type LedgerHandler struct {
	engine transferEngine
}

func NewLedgerHandler(engine transferEngine) *LedgerHandler {
	return &LedgerHandler{engine: engine}
}

type transferRequest struct {
	ToUserID string `json:"to_user_id"`
	Amount   int64  `json:"amount"`
}

func (r transferRequest) Validate() []FieldError {
	var errs []FieldError
	if r.ToUserID == "" {
		errs = append(errs, FieldError{Field: "to_user_id", Message: "required"})
	}
	if r.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	return errs
}

type transferResponse struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     int64  `json:"amount"`
	Balance    int64  `json:"balance"`
}

func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.engine.Transfer(r.Context(), ledger.TransferRequest{
		Token:    token,
		ToUserID: req.ToUserID,
		Amount:   req.Amount,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("transfer failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, transferResponse{
		FromUserID: res.FromUserID,
		ToUserID:   res.ToUserID,
		Amount:     res.Amount,
		Balance:    res.FromBalance,
	})
}

type loanRequest struct {
	Amount int64 `json:"amount"`
}

func (r loanRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	return errs
}

type loanResponse struct {
	Amount  int64 `json:"amount"`
	Balance int64 `json:"balance"`
}

func (h *LedgerHandler) Loan(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	balance, err := h.engine.Loan(r.Context(), ledger.LoanRequest{Token: token, Amount: req.Amount})
	if err != nil {
		logging.FromContext(r.Context()).Error("loan failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, loanResponse{Amount: req.Amount, Balance: balance})
}
