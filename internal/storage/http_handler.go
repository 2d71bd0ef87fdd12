package storage

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LACRA/agritrace360/utils"
)

type HTTPHandler struct {
	Service *ArchiveService
}

func NewHTTPHandler(service *ArchiveService) *HTTPHandler {
	return &HTTPHandler{Service: service}
}

// HandleDownload handles GET /api/archive/:key
func (h *HTTPHandler) HandleDownload(c *gin.Context) {
	key := c.Param("key")

	reader, contentType, err := h.Service.Open(c.Request.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, ErrObjectNotFound):
			utils.WriteErrorCode(c, http.StatusNotFound, utils.CodeNotFound, "archived report not found")
		case errors.Is(err, ErrInvalidKey):
			utils.WriteErrorCode(c, http.StatusBadRequest, utils.CodeInvalidArgument, "invalid archive key")
		default:
			slog.ErrorContext(c.Request.Context(), "archive download failed", "key", key, "error", err)
			utils.WriteInternalError(c)
		}
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, reader, nil)
}
