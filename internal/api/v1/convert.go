package v1

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"vaconvert/internal/runner"
	"vaconvert/internal/tableio"
)

// ConvertDone 转换完成事件的附加数据
type ConvertDone struct {
	*runner.ConvertReport
	TrainURL string `json:"trainUrl"`
	TestURL  string `json:"testUrl,omitempty"`
}

// Convert 上传训练集（及可选测试集）并转换 (SSE 流式响应)
// POST /api/convert
func (h *Handler) Convert(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表单数据"})
		return
	}
	if len(form.File["file"]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	defaults, err := h.settings()
	if err != nil {
		h.writeError(c, err)
		return
	}
	opts, err := parseSettings(
		c.DefaultPostForm("format", string(defaults.Format)),
		c.DefaultPostForm("cutoff", string(defaults.CutoffMode)),
		c.DefaultPostForm("scheme", string(defaults.Scheme)),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	prefix := uuid.NewString()[:8]
	trainPath, err := h.saveUpload(c, form.File["file"][0], prefix)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer os.Remove(trainPath)

	var testPath string
	if files := form.File["test"]; len(files) > 0 {
		if testPath, err = h.saveUpload(c, files[0], prefix+"t"); err != nil {
			h.writeError(c, err)
			return
		}
		defer os.Remove(testPath)
	}

	convertOpts := runner.ConvertOptions{
		TrainPath:   trainPath,
		TestPath:    testPath,
		OutPath:     h.exportPath(trainPath),
		Format:      opts.Format,
		CutoffMode:  opts.CutoffMode,
		Scheme:      opts.Scheme,
		CauseColumn: h.cfg.Convert.CauseColumn,
	}
	if testPath != "" {
		convertOpts.TestOutPath = h.exportPath(testPath)
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	for event := range h.runner.Convert(c.Request.Context(), convertOpts) {
		if report, ok := event.Data.(*runner.ConvertReport); ok && event.Type == runner.EventDone {
			event.Data = h.registerDownloads(report, form.File["file"][0].Filename, testName(form))
		}

		eventData, err := json.Marshal(event)
		if err != nil {
			h.logger.Warn("failed to encode progress event", zap.Error(err))
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

func (h *Handler) registerDownloads(report *runner.ConvertReport, trainName, testName string) ConvertDone {
	done := ConvertDone{ConvertReport: report}
	token := h.downloads.put(report.TrainOut, runner.OutputPath(trainName, "converted"), h.ttl)
	done.TrainURL = "/api/download/" + token
	if report.TestOut != "" {
		token := h.downloads.put(report.TestOut, runner.OutputPath(testName, "converted"), h.ttl)
		done.TestURL = "/api/download/" + token
	}
	return done
}

// saveUpload 保存上传文件到 uploads 目录，保留扩展名以便识别格式
func (h *Handler) saveUpload(c *gin.Context, fh *multipart.FileHeader, prefix string) (string, error) {
	name := filepath.Base(fh.Filename)
	if _, err := tableio.DetectFormat(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	dst := filepath.Join(h.uploadDir, prefix+"_"+name)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return dst, nil
}

func (h *Handler) exportPath(upload string) string {
	return filepath.Join(h.exportDir, runner.OutputPath(filepath.Base(upload), "converted"))
}

func testName(form *multipart.Form) string {
	if files := form.File["test"]; len(files) > 0 {
		return filepath.Base(files[0].Filename)
	}
	return ""
}

// splitLabels 解析逗号分隔的标签，保留空字符串标签（如 "Don't Know,,Refused"）
func splitLabels(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
