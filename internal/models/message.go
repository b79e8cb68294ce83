package models

import (
	"errors"
	"fmt"
	"time"
)

// MessageMeta is the type-specific payload of a message. The concrete type
// is fixed by the message's MediaType; see ValidateMeta.
type MessageMeta interface {
	Kind() MediaType
}

// TransferMeta records a point transfer.
type TransferMeta struct {
	Amount int `json:"amount"`
}

func (TransferMeta) Kind() MediaType { return MediaTransfer }

// DiceMeta records a die roll.
type DiceMeta struct {
	Value int `json:"value"`
}

func (DiceMeta) Kind() MediaType { return MediaDice }

// RPSChoice is a rock-paper-scissors hand.
type RPSChoice string

const (
	RPSRock     RPSChoice = "rock"
	RPSPaper    RPSChoice = "paper"
	RPSScissors RPSChoice = "scissors"
)

// RPSMeta records a rock-paper-scissors throw.
type RPSMeta struct {
	Choice RPSChoice `json:"choice"`
}

func (RPSMeta) Kind() MediaType { return MediaRPS }

// ShareCardMeta is a forwarded post rendered as a card.
type ShareCardMeta struct {
	PostID  string `json:"post_id"`
	Title   string `json:"title"`
	Image   string `json:"image,omitempty"`
	Summary string `json:"summary"`
}

func (ShareCardMeta) Kind() MediaType { return MediaShareCard }

var ErrInvalidMeta = errors.New("invalid message metadata")

// ValidateMeta checks that meta matches the payload required by t.
func ValidateMeta(t MediaType, meta MessageMeta) error {
	switch t {
	case MediaText, MediaImage, MediaSticker, MediaAudio:
		if meta != nil {
			return fmt.Errorf("%w: %s carries no metadata", ErrInvalidMeta, t)
		}
		return nil
	case MediaTransfer:
		m, ok := meta.(TransferMeta)
		if !ok || m.Amount <= 0 {
			return fmt.Errorf("%w: transfer needs a positive amount", ErrInvalidMeta)
		}
		return nil
	case MediaDice:
		m, ok := meta.(DiceMeta)
		if !ok || m.Value < 1 || m.Value > 6 {
			return fmt.Errorf("%w: dice value must be 1..6", ErrInvalidMeta)
		}
		return nil
	case MediaRPS:
		m, ok := meta.(RPSMeta)
		if !ok {
			return fmt.Errorf("%w: rps needs a choice", ErrInvalidMeta)
		}
		switch m.Choice {
		case RPSRock, RPSPaper, RPSScissors:
			return nil
		}
		return fmt.Errorf("%w: unknown rps choice %q", ErrInvalidMeta, m.Choice)
	case MediaShareCard:
		m, ok := meta.(ShareCardMeta)
		if !ok || m.PostID == "" {
			return fmt.Errorf("%w: share card needs a post id", ErrInvalidMeta)
		}
		return nil
	case MediaVideo:
		return fmt.Errorf("%w: video messages are not supported", ErrInvalidMeta)
	}
	return fmt.Errorf("%w: unknown message type %q", ErrInvalidMeta, t)
}

// Message belongs to exactly one conversation and is never mutated after
// creation.
type Message struct {
	ID         string      `json:"id"`
	SenderID   string      `json:"sender_id"`
	ReceiverID string      `json:"receiver_id"`
	Content    string      `json:"content"`
	Type       MediaType   `json:"type"`
	CreatedAt  time.Time   `json:"created_at"`
	IsGroup    bool        `json:"is_group,omitempty"`
	Meta       MessageMeta `json:"meta,omitempty"`
}

// ConversationKey identifies a conversation: a group id, or the unordered
// pair of participants.
type ConversationKey string

// ConversationKeyFor returns the key of the conversation between a and b.
// For groups b is the group id and a is ignored.
func ConversationKeyFor(a, b string, group bool) ConversationKey {
	if group {
		return ConversationKey("group:" + b)
	}
	if b < a {
		a, b = b, a
	}
	return ConversationKey(a + "|" + b)
}

// Key returns the conversation m belongs to.
func (m Message) Key() ConversationKey {
	return ConversationKeyFor(m.SenderID, m.ReceiverID, m.IsGroup)
}

// Peer returns the other side of the conversation as seen by viewerID.
func (m Message) Peer(viewerID string) string {
	if m.IsGroup || m.SenderID == viewerID {
		return m.ReceiverID
	}
	return m.SenderID
}

// ConversationSummary is one row of the conversation list.
type ConversationSummary struct {
	PeerID      string  `json:"peer_id"`
	DisplayName string  `json:"display_name"`
	IsGroup     bool    `json:"is_group,omitempty"`
	LastMessage Message `json:"last_message"`
}

// SendMessageRequest defines the request body for a plain chat message
type SendMessageRequest struct {
	Content string    `json:"content" validate:"required,max=2000"`
	Type    MediaType `json:"type,omitempty" validate:"omitempty,oneof=text image sticker"`
}

// TransferRequest defines the request body for a point transfer
type TransferRequest struct {
	Amount int `json:"amount" validate:"required,min=1"`
}

// ChatBackgroundRequest sets the chat wallpaper for the session.
type ChatBackgroundRequest struct {
	Background string `json:"background" validate:"required,max=200"`
}

// PurchaseRequest defines the request body for buying points
type PurchaseRequest struct {
	Amount int `json:"amount" validate:"required,min=1,max=100000"`
}
