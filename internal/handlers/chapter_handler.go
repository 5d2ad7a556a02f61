package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ChapterService is the interface that wraps chapter listing
type ChapterService interface {
	// GetChapters retrieves the list of chapters in the catalog
	//
	// "ctx" is the context for the request.
	//
	// Returns the chapters and an error if any.
	GetChapters(ctx context.Context) ([]string, error)
}

// ChapterHandler handles HTTP requests for the chapter catalog
type ChapterHandler struct {
	BaseHandler
	service ChapterService
}

// NewChapterHandler creates a new chapter handler
func NewChapterHandler(svc ChapterService, logger *zap.Logger) *ChapterHandler {
	return &ChapterHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all chapter handler routes
func (h *ChapterHandler) RegisterRoutes(r chi.Router) {
	r.Get("/chapters", h.GetChapters)
}

// GetChapters handles GET /chapters
// @Summary Get all chapters
// @Description Get the list of distinct chapters in the card catalog
// @Tags chapters
// @Accept json
// @Produce json
// @Success 200 {array} string "Chapters"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /chapters [get]
func (h *ChapterHandler) GetChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.service.GetChapters(r.Context())
	if err != nil {
		h.Logger.Error("failed to get chapters", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "error fetching chapters")
		return
	}

	h.RespondJSON(w, http.StatusOK, chapters)
}
