package state

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/anonto42/moments/backend/internal/ledger"
	"github.com/anonto42/moments/backend/internal/models"
)

// Transfer sends amount points to the active chat and records the transfer
// as a message in that conversation. peer, when set, must name the active chat.
func (s *Store) Transfer(peer string, amount int) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("transfer"); err != nil {
		return models.Message{}, err
	}
	if amount <= 0 {
		return models.Message{}, s.rejectLocked("transfer", ErrInvalidAmount, "Enter a positive amount.")
	}
	target, err := s.targetLocked("transfer", peer)
	if err != nil {
		return models.Message{}, err
	}
	if target == s.user.ID {
		return models.Message{}, s.rejectLocked("transfer", ErrForbidden, "You cannot transfer points to yourself.")
	}
	if target != s.activeChat {
		return models.Message{}, s.rejectLocked("transfer", ErrNoActiveChat, "Open a chat to transfer points.")
	}
	if err := ledger.CheckAfford(s.user.Points, amount); err != nil {
		return models.Message{}, s.rejectLocked("transfer", err, "Insufficient points.")
	}
	s.adjustLocked(ledger.ReasonTransfer, -amount, target)
	msg := s.sendLocked(target, fmt.Sprintf("Transfer: %d pts", amount), models.MediaTransfer, models.TransferMeta{Amount: amount})
	s.notifyLocked(models.SeveritySuccess, fmt.Sprintf("Transferred %d points.", amount))
	return msg, nil
}

// BuyPoints schedules a simulated top-up. The balance is credited once the
// payment delay has elapsed.
func (s *Store) BuyPoints(amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("purchase"); err != nil {
		return err
	}
	if amount <= 0 {
		return s.rejectLocked("purchase", ErrInvalidAmount, "Enter a positive amount.")
	}
	s.sched.After(s.purchaseDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		s.adjustLocked(ledger.ReasonPurchase, amount, "")
		s.notifyLocked(models.SeveritySuccess, fmt.Sprintf("Successfully purchased %d pts!", amount))
		s.logger.Info("purchase settled", zap.Int("amount", amount), zap.Int("balance", s.user.Points))
	})
	return nil
}

// RegisterReferral credits the referral bonus.
func (s *Store) RegisterReferral(referrerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked("referral"); err != nil {
		return err
	}
	if referrerID == s.user.ID {
		return s.rejectLocked("referral", ErrForbidden, "You cannot refer yourself.")
	}
	s.adjustLocked(ledger.ReasonReferral, ledger.ReferralBonus, referrerID)
	s.notifyLocked(models.SeveritySuccess, "Referral bonus applied!")
	return nil
}
