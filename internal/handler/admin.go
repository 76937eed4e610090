package handler

import (
	"context"
	"net/http"

	"github.com/finware/ledgerd/internal/domain"
)

type accountLister interface {
	Accounts(ctx context.Context) []domain.AccountSummary
}

// AdminHandler serves the diagnostic read path: account identities only,
// never balances.
type AdminHandler struct {
	engine accountLister
}

func NewAdminHandler(engine accountLister) *AdminHandler {
	return &AdminHandler{engine: engine}
}

type accountSummaryDTO struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	summaries := h.engine.Accounts(r.Context())

	dtos := make([]accountSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = accountSummaryDTO{UserID: s.UserID, DisplayName: s.DisplayName}
	}

	RespondSuccess(w, http.StatusOK, dtos)
}
