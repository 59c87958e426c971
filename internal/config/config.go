package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// FileName 默认配置文件名
const FileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Convert ConvertConfig `toml:"convert"`
	Remap   RemapConfig   `toml:"remap"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
	// DownloadTTLMinutes 转换结果下载链接有效期
	DownloadTTLMinutes int `toml:"download_ttl_minutes"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir    string `toml:"data_dir"`
	RecordRuns bool   `toml:"record_runs"` // 是否写入转换记录库
}

// ConvertConfig 规则引擎默认参数
type ConvertConfig struct {
	Format      string `toml:"format"`
	CutoffMode  string `toml:"cutoff_mode"`
	CauseColumn string `toml:"cause_column"`
	Scheme      string `toml:"scheme"`
	Workers     int    `toml:"workers"`
}

// RemapConfig 标签重编码默认参数
type RemapConfig struct {
	DataType string   `toml:"data_type"`
	Yes      []string `toml:"yes"`
	No       []string `toml:"no"`
	Missing  []string `toml:"missing"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FromFile      bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:               20262,
			DevMode:            false,
			DownloadTTLMinutes: 30,
		},
		Data: DataConfig{
			DataDir:    "data",
			RecordRuns: true,
		},
		Convert: ConvertConfig{
			Format:      "adult",
			CutoffMode:  "default",
			CauseColumn: "gs_text34",
			Scheme:      "legacy",
		},
		Remap: RemapConfig{
			DataType: "legacy",
			Yes:      []string{"Yes"},
			No:       []string{"No"},
			Missing:  []string{"Don't Know", "Refused to Answer", ""},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 可执行文件同目录下的 config.toml
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, FileName)
}

// LoadConfigWithInfo 加载配置并返回元信息；path 为空时使用默认位置，文件不存在时使用默认配置
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			applyEnvOverrides(config)
			return config, info, nil
		}
		return nil, info, err
	}

	info.FromFile = true
	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnvOverrides(config)
	return config, info, nil
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// applyEnvOverrides 环境变量覆盖（用于容器 / 本地运行）
func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("VACONVERT_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("VACONVERT_CAUSE_COLUMN"); v != "" {
		config.Convert.CauseColumn = v
	}
	if v := os.Getenv("VACONVERT_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("VACONVERT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
		}
	}
}

// SaveConfig 保存配置
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir 数据目录：绝对路径原样使用，相对路径相对可执行文件目录
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录及子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
