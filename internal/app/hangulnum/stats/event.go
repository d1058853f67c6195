package stats

import "time"

// Op 是被统计的操作类型。
type Op string

const (
	OpEncode   Op = "encode"
	OpDecode   Op = "decode"
	OpVariants Op = "variants"
)

// ConversionEvent 一次编解码请求的记录。Number 用十进制字符串，uint64 放不进 Postgres BIGINT。
type ConversionEvent struct {
	Op     Op        `json:"op"`
	Number string    `json:"number,omitempty"` // 解码失败时为空
	Text   string    `json:"text,omitempty"`
	Seed   *int      `json:"seed,omitempty"`
	OK     bool      `json:"ok"`
	Err    string    `json:"err,omitempty"` // 失败原因，对应 metrics 里的 result
	IP     string    `json:"ip"`
	At     time.Time `json:"at"`
}
