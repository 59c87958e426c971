package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vaconvert/internal/model"
	"vaconvert/internal/store"
)

// Settings 转换默认选项
type Settings struct {
	Format     model.Format     `json:"format"`
	CutoffMode model.CutoffMode `json:"cutoffMode"`
	Scheme     model.Scheme     `json:"scheme"`
}

// UpdateSettingsRequest 部分更新，空字段保持不变
type UpdateSettingsRequest struct {
	Format     string `json:"format"`
	CutoffMode string `json:"cutoffMode"`
	Scheme     string `json:"scheme"`
}

// settings 配置文件默认值，被设置库中的值覆盖
func (h *Handler) settings() (Settings, error) {
	raw := map[string]string{
		store.SettingFormat:     h.cfg.Convert.Format,
		store.SettingCutoffMode: h.cfg.Convert.CutoffMode,
		store.SettingScheme:     h.cfg.Convert.Scheme,
	}
	if h.store != nil {
		for key := range raw {
			v, err := h.store.GetSetting(key)
			if err != nil {
				if errors.Is(err, store.ErrSettingNotFound) {
					continue
				}
				return Settings{}, err
			}
			raw[key] = v
		}
	}
	return parseSettings(raw[store.SettingFormat], raw[store.SettingCutoffMode], raw[store.SettingScheme])
}

func parseSettings(format, cutoff, scheme string) (Settings, error) {
	var (
		s   Settings
		err error
	)
	if s.Format, err = model.ParseFormat(format); err != nil {
		return Settings{}, err
	}
	if s.CutoffMode, err = model.ParseCutoffMode(cutoff); err != nil {
		return Settings{}, err
	}
	if s.Scheme, err = model.ParseScheme(scheme); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// GetSettings 获取默认选项
// GET /api/settings
func (h *Handler) GetSettings(c *gin.Context) {
	s, err := h.settings()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateSettings 更新默认选项
// PATCH /api/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "运行记录库未启用，无法保存设置"})
		return
	}
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	current, err := h.settings()
	if err != nil {
		h.writeError(c, err)
		return
	}
	next, err := parseSettings(
		firstNonEmpty(req.Format, string(current.Format)),
		firstNonEmpty(req.CutoffMode, string(current.CutoffMode)),
		firstNonEmpty(req.Scheme, string(current.Scheme)),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	for key, value := range map[string]string{
		store.SettingFormat:     string(next.Format),
		store.SettingCutoffMode: string(next.CutoffMode),
		store.SettingScheme:     string(next.Scheme),
	} {
		if err := h.store.SetSetting(key, value); err != nil {
			h.writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, next)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
