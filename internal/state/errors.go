package state

import (
	"errors"

	"github.com/anonto42/moments/backend/internal/ledger"
	"github.com/anonto42/moments/backend/internal/models"
)

var (
	ErrUnsafeContent    = errors.New("content blocked: policy violation")
	ErrForbidden        = errors.New("action not permitted")
	ErrNotFound         = errors.New("not found")
	ErrDailyLimit       = errors.New("daily limit reached")
	ErrNoActiveChat     = errors.New("no active chat")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAlreadyContact   = errors.New("already a contact")
	ErrClosed           = errors.New("session closed")
)

// cause returns a short metric label for err.
func cause(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrUnsafeContent):
		return "unsafe_content"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDailyLimit):
		return "daily_limit"
	case errors.Is(err, ErrNoActiveChat):
		return "no_active_chat"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrAlreadyContact):
		return "already_contact"
	case errors.Is(err, models.ErrInvalidMeta):
		return "invalid_meta"
	}
	return "other"
}
