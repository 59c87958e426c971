package v1

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vaconvert/internal/config"
	"vaconvert/internal/runner"
	"vaconvert/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	store     *store.Store
	runner    *runner.Runner
	cfg       *config.AppConfig
	uploadDir string
	exportDir string
	downloads *downloadStore
	ttl       time.Duration
	logger    *zap.Logger
}

// NewHandler 创建 V1 API 处理器，上传与导出文件分别落在 dataDir 的 uploads / exports 下
func NewHandler(st *store.Store, cfg *config.AppConfig, dataDir string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := time.Duration(cfg.Server.DownloadTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Handler{
		store:     st,
		runner:    runner.New(st, logger, cfg.Convert.Workers),
		cfg:       cfg,
		uploadDir: filepath.Join(dataDir, "uploads"),
		exportDir: filepath.Join(dataDir, "exports"),
		downloads: newDownloadStore(),
		ttl:       ttl,
		logger:    logger,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 规则目录与数据来源
	router.GET("/formats/:format/rules", h.GetRules)
	router.GET("/formats/:format/source", h.GetSource)

	// 默认选项
	router.GET("/settings", h.GetSettings)
	router.PATCH("/settings", h.UpdateSettings)

	// 转换与重编码
	router.POST("/convert", h.Convert)
	router.POST("/remap", h.Remap)
	router.GET("/download/:token", h.Download)

	// 运行记录
	router.GET("/runs", h.ListRuns)
	router.GET("/runs/:id", h.GetRun)
}
