package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vaconvert/internal/model"
	"vaconvert/internal/rules"
	"vaconvert/internal/source"
)

// GetRules 返回问卷类型的规则目录
// GET /api/formats/:format/rules
func (h *Handler) GetRules(c *gin.Context) {
	format, err := model.ParseFormat(c.Param("format"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	rs, err := rules.Load(format)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rs)
}

// GetSource 返回 PHMRC 公开数据集下载地址
// GET /api/formats/:format/source
func (h *Handler) GetSource(c *gin.Context) {
	format, err := model.ParseFormat(c.Param("format"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	url, err := source.Locate(format)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"format": format, "url": url})
}
