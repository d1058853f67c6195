package httpapi

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"hangulnum.local/gee"
	"hangulnum.local/internal/app/hangulnum"
)

// maxTextBytes 是 /decode 接受的密文上限。合法编码最多 11 个符号，
// 前导零符号也能解码，所以这里只挡明显的超长输入，同时限制落库的事件大小。
const maxTextBytes = 256

var errTextTooLong = errors.New("text too long")

// resultOf 把领域错误映射为 metrics/事件里的 result 标签。
func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, hangulnum.ErrInvalidNumber):
		return "invalid_number"
	case errors.Is(err, hangulnum.ErrInvalidSeed):
		return "invalid_seed"
	case errors.Is(err, hangulnum.ErrTooShort):
		return "too_short"
	case errors.Is(err, hangulnum.ErrUnknownSymbol):
		return "unknown_symbol"
	case errors.Is(err, hangulnum.ErrOverflow):
		return "overflow"
	case errors.Is(err, errTextTooLong):
		return "text_too_long"
	default:
		return "error"
	}
}

// statusOf 领域错误都是调用方输入的问题，统一 400；其余按 500 处理。
func statusOf(err error) int {
	if resultOf(err) == "error" {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func intPtr(v int) *int { return &v }

// bindResult 区分请求体过大和普通的 JSON 错误。
func bindResult(err error) string {
	if errors.Is(err, gee.ErrBodyTooLarge) {
		return "body_too_large"
	}
	return "invalid_json"
}

// truncateText 截到最多 n 字节，不切断 UTF-8 字符。
func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
