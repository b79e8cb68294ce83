package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anonto42/moments/backend/internal/state"
)

const maxUploadSize = 10 << 20

// MediaHandler forwards uploads and queries to the generation gate
type MediaHandler struct {
	logger *zap.Logger
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(logger *zap.Logger) *MediaHandler {
	return &MediaHandler{logger: logger}
}

// RegisterMediaRoutes registers media helper routes
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.POST("/media/transcribe", h.Transcribe)
	g.POST("/media/describe", h.DescribeImage)
	g.GET("/places", h.SearchPlaces)
}

// readUpload reads the multipart "file" field.
func (h *MediaHandler) readUpload(c echo.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "Missing file upload")
	}
	if fileHeader.Size > maxUploadSize {
		return nil, "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File too large")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "Unreadable file upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize))
	if err != nil {
		h.logger.Warn("failed to read upload", zap.Error(err))
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "Unreadable file upload")
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

func (h *MediaHandler) upload(c echo.Context, fn func(store *state.Store, data []byte, mimeType string) interface{}) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	data, mimeType, err := h.readUpload(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fn(store, data, mimeType))
}

// Transcribe converts an uploaded audio clip to text
func (h *MediaHandler) Transcribe(c echo.Context) error {
	return h.upload(c, func(store *state.Store, data []byte, mimeType string) interface{} {
		return store.Transcribe(c.Request().Context(), data, mimeType)
	})
}

// DescribeImage captions an uploaded image
func (h *MediaHandler) DescribeImage(c echo.Context) error {
	return h.upload(c, func(store *state.Store, data []byte, mimeType string) interface{} {
		return store.DescribeImage(c.Request().Context(), data, mimeType)
	})
}

// SearchPlaces answers ?q= near the viewer's detected location
func (h *MediaHandler) SearchPlaces(c echo.Context) error {
	store, err := getStore(c)
	if err != nil {
		return err
	}
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	return c.JSON(http.StatusOK, store.SearchPlaces(c.Request().Context(), query))
}
