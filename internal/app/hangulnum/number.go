package hangulnum

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrInvalidNumber = errors.New("invalid number")

// ParseNumber 解析用户输入的非负整数，允许千分位逗号（"12,345"）。
func ParseNumber(raw string) (uint64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidNumber)
	}
	// 只收纯数字，符号和空白都不行
	if s[0] < '0' || s[0] > '9' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return n, nil
}

// FormatNumber 按英文习惯加千分位，例如 12345 -> "12,345"。
func FormatNumber(n uint64) string {
	// Printer 不保证并发安全，每次新建
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
