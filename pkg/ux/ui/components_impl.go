package ui

import (
	"fmt"

	"github.com/pterm/pterm"
)

// ShowTable 显示表格
func (c *components) ShowTable(title string, data [][]string) error {
	if len(data) == 0 {
		return fmt.Errorf("表格数据为空")
	}

	if title != "" {
		pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(c.theme.PrimaryColor)).
			Println(title)
	}

	table := pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-")
	return table.WithData(data).Render()
}

// ShowKeyValuePairs 显示键值对（保持传入顺序）
func (c *components) ShowKeyValuePairs(title string, pairs [][2]string) error {
	if title != "" {
		pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(c.theme.PrimaryColor)).
			Println(title)
	}

	data := [][]string{{"项目", "值"}}
	for _, pair := range pairs {
		data = append(data, []string{pair[0], pair[1]})
	}

	table := pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-")
	return table.WithData(data).Render()
}

// ShowConfirmDialog 显示确认对话框
func (c *components) ShowConfirmDialog(title, message string) (bool, error) {
	if title != "" {
		pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(c.theme.WarningColor)).
			Println(title)
		pterm.Println()
	}

	pterm.Info.Println(message)
	pterm.Println()

	result, err := pterm.DefaultInteractiveConfirm.
		WithDefaultText("确认继续吗？").
		WithDefaultValue(false).
		Show()

	if err != nil {
		return false, fmt.Errorf("确认对话框失败: %v", err)
	}

	return result, nil
}

// ShowSpinner 显示加载动画
func (c *components) ShowSpinner(message string) Spinner {
	return &spinnerImpl{
		message: message,
	}
}

// ShowSuccess 显示成功消息
func (c *components) ShowSuccess(message string) error {
	pterm.Success.WithPrefix(pterm.Prefix{
		Text:  "SUCCESS",
		Style: pterm.NewStyle(c.theme.SuccessColor),
	}).Println(message)
	return nil
}

// ShowError 显示错误消息
func (c *components) ShowError(message string) error {
	pterm.Error.WithPrefix(pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(c.theme.ErrorColor),
	}).Println(message)
	return nil
}

// ShowWarning 显示警告消息
func (c *components) ShowWarning(message string) error {
	pterm.Warning.WithPrefix(pterm.Prefix{
		Text:  "WARNING",
		Style: pterm.NewStyle(c.theme.WarningColor),
	}).Println(message)
	return nil
}

// ShowInfo 显示信息消息
func (c *components) ShowInfo(message string) error {
	pterm.Info.WithPrefix(pterm.Prefix{
		Text:  "INFO",
		Style: pterm.NewStyle(c.theme.InfoColor),
	}).Println(message)
	return nil
}

// ShowHeader 显示标题
func (c *components) ShowHeader(text string) error {
	pterm.DefaultHeader.WithFullWidth().
		WithBackgroundStyle(pterm.NewStyle(c.theme.PrimaryColor)).
		Println(text)
	return nil
}

// ShowSection 显示分区标题
func (c *components) ShowSection(text string) error {
	pterm.DefaultSection.Println(text)
	return nil
}

// spinnerImpl 加载动画实现
type spinnerImpl struct {
	message string
	spinner *pterm.SpinnerPrinter
}

func (s *spinnerImpl) Start() error {
	spinner, err := pterm.DefaultSpinner.Start(s.message)
	if err != nil {
		return err
	}
	s.spinner = spinner
	return nil
}

func (s *spinnerImpl) UpdateText(text string) error {
	if s.spinner == nil {
		return fmt.Errorf("spinner 未启动")
	}
	s.spinner.UpdateText(text)
	return nil
}

func (s *spinnerImpl) Success(message string) error {
	if s.spinner == nil {
		return fmt.Errorf("spinner 未启动")
	}
	s.spinner.Success(message)
	return nil
}

func (s *spinnerImpl) Fail(message string) error {
	if s.spinner == nil {
		return fmt.Errorf("spinner 未启动")
	}
	s.spinner.Fail(message)
	return nil
}

func (s *spinnerImpl) Stop() error {
	if s.spinner == nil {
		return nil
	}
	return s.spinner.Stop()
}
