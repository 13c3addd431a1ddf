package ui

import (
	"time"

	"github.com/pterm/pterm"
)

// Components UI组件接口，定义所有可用的UI组件
type Components interface {
	// 数据展示组件
	ShowTable(title string, data [][]string) error
	ShowKeyValuePairs(title string, pairs [][2]string) error

	// 交互组件
	ShowConfirmDialog(title, message string) (bool, error)

	// 进度反馈组件
	ShowSpinner(message string) Spinner

	// 状态显示组件
	ShowSuccess(message string) error
	ShowError(message string) error
	ShowWarning(message string) error
	ShowInfo(message string) error

	// 布局组件
	ShowHeader(text string) error
	ShowSection(text string) error
}

// Spinner 加载动画接口
type Spinner interface {
	Start() error
	UpdateText(text string) error
	Success(message string) error
	Fail(message string) error
	Stop() error
}

// ThemeConfig 主题配置
type ThemeConfig struct {
	PrimaryColor pterm.Color
	SuccessColor pterm.Color
	WarningColor pterm.Color
	ErrorColor   pterm.Color
	InfoColor    pterm.Color
}

// getDefaultTheme 获取默认主题配置
func getDefaultTheme() *ThemeConfig {
	return &ThemeConfig{
		PrimaryColor: pterm.FgLightBlue,
		SuccessColor: pterm.FgGreen,
		WarningColor: pterm.FgYellow,
		ErrorColor:   pterm.FgRed,
		InfoColor:    pterm.FgCyan,
	}
}

// components UI组件集合的具体实现
type components struct {
	logger Logger
	theme  *ThemeConfig
}

// NewComponents 创建UI组件实例
func NewComponents(logger Logger) Components {
	if logger == nil {
		logger = NoopLogger()
	}
	return &components{
		logger: logger,
		theme:  getDefaultTheme(),
	}
}

// TruncateString 截断字符串到指定长度
func TruncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	return str[:maxLen-3] + "..."
}

// FormatDeadline 格式化截止时间的剩余量
func FormatDeadline(deadline uint64, now time.Time) string {
	remaining := time.Duration(int64(deadline)-now.Unix()) * time.Second
	if remaining <= 0 {
		return "已截止"
	}

	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60
	seconds := int(remaining.Seconds()) % 60

	if hours > 0 {
		return pterm.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return pterm.Sprintf("%dm %ds", minutes, seconds)
	}
	return pterm.Sprintf("%ds", seconds)
}

// ShortAddress 缩略显示地址
func ShortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
