package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/finware/ledgerd/internal/domain"
	"github.com/finware/ledgerd/internal/logging"
)

type TransferRequest struct {
	Token    string
	ToUserID string
	Amount   int64
}

type TransferResult struct {
	FromUserID  string
	ToUserID    string
	Amount      int64
	FromBalance int64
}

// Transfer moves money between two accounts as one atomic double-entry
// movement: the sender debit, the recipient credit, and both history
// appends commit together or not at all. A concurrent reader can never
// observe one side without the other.
func (e *Engine) Transfer(ctx context.Context, req TransferRequest) (res *TransferResult, err error) {
	ctx, span := e.tracer.Start(ctx, "ledger.Transfer",
		trace.WithAttributes(
			attribute.String("ledger.to_user_id", req.ToUserID),
			attribute.Int64("ledger.amount", req.Amount),
		),
	)
	defer func() {
		e.emit(ctx, "transfer", err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, domain.ErrorType(err))
		}
		span.End()
	}()

	fromUserID, rerr := e.sessions.Resolve(req.Token)
	if rerr != nil {
		return nil, fmt.Errorf("Transfer: %w", rerr)
	}
	span.SetAttributes(attribute.String("ledger.from_user_id", fromUserID))

	if req.ToUserID == "" {
		return nil, fmt.Errorf("Transfer: recipient required: %w", domain.ErrInvalidRequest)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrInvalidAmount)
	}

	if _, err := e.accounts.Get(req.ToUserID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("Transfer: %w", domain.ErrRecipientNotFound)
		}
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	if fromUserID == req.ToUserID {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrSelfTransfer)
	}

	// Simulated processing latency. Deliberately outside the account
	// locks so it cannot stretch the critical section.
	if e.transferDelay > 0 {
		time.Sleep(e.transferDelay)
	}

	res = &TransferResult{FromUserID: fromUserID, ToUserID: req.ToUserID, Amount: req.Amount}
	err = e.accounts.WithAccounts(fromUserID, req.ToUserID, func(from, to *domain.Account) error {
		if from.Balance < req.Amount {
			return fmt.Errorf("balance %d short of %d: %w", from.Balance, req.Amount, domain.ErrInsufficientFunds)
		}

		now := time.Now().UTC()
		from.Balance -= req.Amount
		to.Balance += req.Amount
		from.Transactions = append(from.Transactions, newTransaction(domain.TransactionKindDebit, req.Amount, to.UserID, now))
		to.Transactions = append(to.Transactions, newTransaction(domain.TransactionKindCredit, req.Amount, from.UserID, now))

		res.FromBalance = from.Balance
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	logging.FromContext(ctx).Info("transfer completed",
		"from_user_id", res.FromUserID,
		"to_user_id", res.ToUserID,
		"amount", res.Amount,
	)
	return res, nil
}
