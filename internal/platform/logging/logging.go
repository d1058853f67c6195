package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New 按配置创建 logger：默认 JSON（方便采集），LOG_FORMAT=text 时输出人类可读格式。
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

// Setup 创建 logger 并设为全局默认。
func Setup(w io.Writer, level slog.Level, format string, service string) *slog.Logger {
	l := New(w, level, format)
	if service != "" {
		l = l.With("service", service)
	}
	slog.SetDefault(l)
	return l
}
