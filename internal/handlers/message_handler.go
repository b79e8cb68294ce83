package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/moments/backend/internal/models"
)

// MessageHandler handles conversations and chat actions
type MessageHandler struct{}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler() *MessageHandler {
	return &MessageHandler{}
}

// RegisterMessageRoutes registers chat routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/chats", h.GetConversations)
	g.GET("/chats/state", h.GetChatState)
	g.PUT("/chats/background", h.SetBackground)
	g.DELETE("/chats/active", h.CloseChat)

	g.POST("/chats/:peer/open", h.OpenChat)
	g.GET("/chats/:peer/messages", h.GetMessages)
	g.POST("/chats/:peer/messages", h.SendMessage)
	g.POST("/chats/:peer/dice", h.RollDice)
	g.POST("/chats/:peer/rps", h.PlayRPS)
	g.POST("/chats/:peer/audio", h.SendAudio)
	g.POST("/chats/:peer/transfer", h.Transfer)

	g.POST("/messages/:id/forward", h.ForwardMessage)
	g.DELETE("/messages/:id", h.HideMessage)
}

// GetConversations lists conversations by latest message
func (h *MessageHandler) GetConversations(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Conversations())
}

// GetChatState reports the active chat, its spark level and the background
func (h *MessageHandler) GetChatState(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"active_chat": store.ActiveChat(),
		"spark_level": store.SparkLevel(),
		"background":  store.ChatBackground(),
	})
}

// SetBackground sets the chat wallpaper
func (h *MessageHandler) SetBackground(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.ChatBackgroundRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	store.SetChatBackground(req.Background)
	return c.JSON(http.StatusOK, echo.Map{"background": req.Background})
}

// CloseChat leaves the active chat
func (h *MessageHandler) CloseChat(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	store.CloseChat()
	return c.NoContent(http.StatusNoContent)
}

// OpenChat makes peer the active chat and returns its history
func (h *MessageHandler) OpenChat(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	messages, err := store.OpenChat(c.Param("peer"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, messages)
}

// GetMessages returns the conversation with peer without opening it
func (h *MessageHandler) GetMessages(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Conversation(c.Param("peer")))
}

// SendMessage sends a text, image or sticker message
func (h *MessageHandler) SendMessage(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Type == "" {
		req.Type = models.MediaText
	}
	msg, err := store.SendMessage(c.Param("peer"), req.Content, req.Type)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// RollDice sends a die roll
func (h *MessageHandler) RollDice(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	msg, err := store.RollDice(c.Param("peer"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// PlayRPS sends a rock-paper-scissors throw
func (h *MessageHandler) PlayRPS(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	msg, err := store.PlayRPS(c.Param("peer"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// SendAudio queues a voice message; it is delivered after a short delay.
func (h *MessageHandler) SendAudio(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	if err := store.SendAudio(c.Param("peer")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusAccepted)
}

// Transfer sends points to peer, which must be the active chat
func (h *MessageHandler) Transfer(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.TransferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := store.Transfer(c.Param("peer"), req.Amount)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// ForwardMessage copies a message into another conversation
func (h *MessageHandler) ForwardMessage(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	var req models.ForwardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := store.ForwardMessage(c.Param("id"), req.To)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// HideMessage hides a message from the viewer's history
func (h *MessageHandler) HideMessage(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	if err := store.HideMessage(c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
