// Package ledger holds the point-economy rules: what each action costs, what
// it rewards, and how a balance is debited. Balances never go below zero.
package ledger

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/anonto42/moments/backend/internal/models"
)

const (
	TextPostBaseCost  = 3
	VideoPostBaseCost = 10
	// FreeContentLength is the number of characters included in the base cost.
	// Every character beyond it costs one point.
	FreeContentLength = 300
	PostReward        = 2

	UnsafePostPenalty    = 50
	UnsafeCommentPenalty = 20

	ReactionCost      = 1
	CommentMinBalance = 2

	LoginBonus    = 20
	ReferralBonus = 50
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// InsufficientBalanceError reports a rejected debit.
type InsufficientBalanceError struct {
	Need int
	Have int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: need %d pts, have %d", e.Need, e.Have)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// PostCost returns the price of publishing content with the given media.
func PostCost(content string, media models.MediaType) int {
	base := TextPostBaseCost
	if media == models.MediaVideo {
		base = VideoPostBaseCost
	}
	extra := utf8.RuneCountInString(content) - FreeContentLength
	if extra < 0 {
		extra = 0
	}
	return base + extra
}

// CheckAfford returns an *InsufficientBalanceError when balance < cost.
func CheckAfford(balance, cost int) error {
	if balance < cost {
		return &InsufficientBalanceError{Need: cost, Have: balance}
	}
	return nil
}

// Debit subtracts amount from balance, clamping at zero.
func Debit(balance, amount int) int {
	if amount >= balance {
		return 0
	}
	return balance - amount
}

// Credit adds amount to balance.
func Credit(balance, amount int) int {
	return balance + amount
}

// Reason labels a journal entry.
type Reason string

const (
	ReasonPost          Reason = "post"
	ReasonPostReward    Reason = "post_reward"
	ReasonUnsafePost    Reason = "unsafe_post"
	ReasonUnsafeComment Reason = "unsafe_comment"
	ReasonReaction      Reason = "reaction"
	ReasonTransfer      Reason = "transfer"
	ReasonPurchase      Reason = "purchase"
	ReasonLoginBonus    Reason = "login_bonus"
	ReasonReferral      Reason = "referral"
)

// Entry is one applied balance change. Delta is the effective change after
// clamping, so it may be smaller in magnitude than the nominal amount.
type Entry struct {
	Reason  Reason    `json:"reason"`
	Delta   int       `json:"delta"`
	Balance int       `json:"balance"`
	At      time.Time `json:"at"`
	Ref     string    `json:"ref,omitempty"`
}

// Journal is an append-only record of balance changes for one session.
type Journal struct {
	entries []Entry
}

// Record appends an entry moving the balance from before to after.
func (j *Journal) Record(reason Reason, before, after int, at time.Time, ref string) Entry {
	e := Entry{Reason: reason, Delta: after - before, Balance: after, At: at, Ref: ref}
	j.entries = append(j.entries, e)
	return e
}

// Entries returns a copy of the journal.
func (j *Journal) Entries() []Entry {
	return append([]Entry(nil), j.entries...)
}
