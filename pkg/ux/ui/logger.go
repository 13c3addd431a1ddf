// Package ui 提供基础 UI 组件库
package ui

// Logger 日志接口（适配器，适用于各种日志实现）
//
// 目的：
//   - 解耦 UI 组件与具体的日志实现
//   - 允许客户端传入自己的日志器
//   - 如果不需要日志，可以传入 nil
type Logger interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})

	Info(msg string)
	Infof(format string, args ...interface{})

	Warn(msg string)
	Warnf(format string, args ...interface{})

	Error(msg string)
	Errorf(format string, args ...interface{})
}

// noopLogger 空日志实现（不输出任何日志）
type noopLogger struct{}

func (l *noopLogger) Debug(_ string)                    {}
func (l *noopLogger) Debugf(_ string, _ ...interface{}) {}
func (l *noopLogger) Info(_ string)                     {}
func (l *noopLogger) Infof(_ string, _ ...interface{})  {}
func (l *noopLogger) Warn(_ string)                     {}
func (l *noopLogger) Warnf(_ string, _ ...interface{})  {}
func (l *noopLogger) Error(_ string)                    {}
func (l *noopLogger) Errorf(_ string, _ ...interface{}) {}

// NoopLogger 返回一个空日志实例（不输出任何日志）
func NoopLogger() Logger {
	return &noopLogger{}
}
