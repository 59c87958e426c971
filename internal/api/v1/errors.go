package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vaconvert/internal/runner"
	"vaconvert/internal/store"
)

// writeError 输入问题返回 400，记录不存在返回 404，其余 500
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case runner.IsInputError(err):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrRunNotFound):
		status = http.StatusNotFound
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
