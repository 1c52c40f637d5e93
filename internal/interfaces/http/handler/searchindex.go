package handler

import (
	searchapp "github.com/finboard/backend/internal/application/search"
	"github.com/finboard/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchIndexHandler handles administrative search index operations
type SearchIndexHandler struct {
	BaseHandler
	rebuilder *searchapp.Rebuilder
}

// NewSearchIndexHandler creates a new SearchIndexHandler
func NewSearchIndexHandler(rebuilder *searchapp.Rebuilder) *SearchIndexHandler {
	return &SearchIndexHandler{rebuilder: rebuilder}
}

// Rebuild handles POST /api/v1/admin/search-index/rebuild.
// The rebuild runs synchronously within the request; a failed run leaves
// a partially built index and is safe to retry.
func (h *SearchIndexHandler) Rebuild(c *gin.Context) {
	log := logger.FromGin(c)
	log.Info("Search index rebuild started")

	if err := h.rebuilder.Rebuild(c.Request.Context()); err != nil {
		log.Error("Search index rebuild failed", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	log.Info("Search index rebuild completed")
	h.Success(c, gin.H{"status": "rebuilt"})
}
