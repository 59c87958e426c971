package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vaconvert/internal/model"
	"vaconvert/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Formats     []model.Format `json:"formats"`     // 已有规则集的问卷类型
	Unsupported []model.Format `json:"unsupported"` // 可识别但无规则集
	RecordRuns  bool           `json:"recordRuns"`
	Runs        map[string]int `json:"runs,omitempty"` // 按状态统计的运行次数
	LastRun     *store.Run     `json:"lastRun,omitempty"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		Formats:     []model.Format{model.FormatAdult, model.FormatChild},
		Unsupported: []model.Format{model.FormatNeonate},
		RecordRuns:  h.store != nil,
	}
	if h.store == nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	counts, err := h.store.CountRuns()
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp.Runs = counts

	runs, err := h.store.ListRuns(1)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if len(runs) > 0 {
		resp.LastRun = runs[0]
	}

	c.JSON(http.StatusOK, resp)
}
