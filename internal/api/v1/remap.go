package v1

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vaconvert/internal/model"
	"vaconvert/internal/remap"
	"vaconvert/internal/runner"
)

// RemapResponse 重编码响应
type RemapResponse struct {
	*runner.RemapReport
	URL string `json:"url"`
}

// Remap 上传表格并按给定标签重编码
// POST /api/remap
func (h *Handler) Remap(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	scheme, err := model.ParseScheme(c.DefaultPostForm("dataType", h.cfg.Remap.DataType))
	if err != nil {
		h.writeError(c, err)
		return
	}
	labels := remap.Labels{
		Yes:     splitLabels(c.PostForm("yes")),
		No:      splitLabels(c.PostForm("no")),
		Missing: splitLabels(c.PostForm("missing")),
	}

	upload, err := h.saveUpload(c, fh, uuid.NewString()[:8])
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer os.Remove(upload)

	report, err := h.runner.RemapSync(c.Request.Context(), runner.RemapOptions{
		InputPath: upload,
		OutPath:   filepath.Join(h.exportDir, runner.OutputPath(filepath.Base(upload), "remapped")),
		Labels:    labels,
		Scheme:    scheme,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	token := h.downloads.put(report.Out, runner.OutputPath(filepath.Base(fh.Filename), "remapped"), h.ttl)
	c.JSON(http.StatusOK, RemapResponse{RemapReport: report, URL: "/api/download/" + token})
}
