package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"hangulnum.local/gee"
)

// maxInboundIDLen 上游传入的请求 ID 过长就丢弃重新生成，避免日志被撑爆。
const maxInboundIDLen = 128

// ReqID 保证每个请求都有 X-Request-ID，并回写到响应头。
func ReqID() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		id := ctx.Req.Header.Get(gee.RequestIDHeader)
		if id == "" || len(id) > maxInboundIDLen {
			id = GenerateReqID()
			if id == "" {
				id = strconv.FormatInt(time.Now().UnixNano(), 10)
			}
			ctx.Req.Header.Set(gee.RequestIDHeader, id)
		}
		ctx.SetHeader(gee.RequestIDHeader, id)

		ctx.Next()
	}
}

func GenerateReqID() string {
	src := make([]byte, 16)
	if _, err := rand.Read(src); err != nil {
		return ""
	}
	return hex.EncodeToString(src) // 32 个十六进制字符
}
