package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/finware/ledgerd/internal/domain"
	"github.com/finware/ledgerd/internal/ledger"
	"github.com/finware/ledgerd/internal/logging"
)

type authEngine interface {
	Register(ctx context.Context, req ledger.RegisterRequest) (*domain.Account, error)
	Login(ctx context.Context, userID string) (string, error)
}

type AuthHandler struct {
	engine authEngine
}

func NewAuthHandler(engine authEngine) *AuthHandler {
	return &AuthHandler{engine: engine}
}

type registerRequest struct {
	UserID         string `json:"user_id"`
	DisplayName    string `json:"display_name"`
	InitialBalance *int64 `json:"initial_balance"`
}

func (r registerRequest) Validate() []FieldError {
	var errs []FieldError
	if r.UserID == "" {
		errs = append(errs, FieldError{Field: "user_id", Message: "required"})
	}
	if r.DisplayName == "" {
		errs = append(errs, FieldError{Field: "display_name", Message: "required"})
	}
	if r.InitialBalance != nil && *r.InitialBalance < 0 {
		errs = append(errs, FieldError{Field: "initial_balance", Message: "must not be negative"})
	}
	return errs
}

type registerResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Balance     int64  `json:"balance"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	acct, err := h.engine.Register(r.Context(), ledger.RegisterRequest{
		UserID:         req.UserID,
		DisplayName:    req.DisplayName,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, registerResponse{
		UserID:      acct.UserID,
		DisplayName: acct.DisplayName,
		Balance:     acct.Balance,
	})
}

type loginRequest struct {
	UserID string `json:"user_id"`
}

func (r loginRequest) Validate() []FieldError {
	var errs []FieldError
	if r.UserID == "" {
		errs = append(errs, FieldError{Field: "user_id", Message: "required"})
	}
	return errs
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	token, err := h.engine.Login(r.Context(), req.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Error("login failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, loginResponse{Token: token})
}
