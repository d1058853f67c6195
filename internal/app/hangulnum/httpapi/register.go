package httpapi

import (
	"context"
	"time"

	"hangulnum.local/gee"
	"hangulnum.local/internal/app/hangulnum"
	"hangulnum.local/internal/app/hangulnum/cache"
	"hangulnum.local/internal/app/hangulnum/repo"
	"hangulnum.local/internal/app/hangulnum/stats"
	"hangulnum.local/internal/platform/auth"
	"hangulnum.local/internal/platform/httpmiddleware"
	"hangulnum.local/internal/platform/ratelimit"
)

// 每个客户端 IP 的限流规则
var (
	encodePolicy   = ratelimit.Policy{Name: "encode", Limit: 60, Window: time.Minute}
	decodePolicy   = ratelimit.Policy{Name: "decode", Limit: 60, Window: time.Minute}
	variantsPolicy = ratelimit.Policy{Name: "variants", Limit: 30, Window: time.Minute}
)

// StatsReader 是 /admin/stats 需要的查询能力，由 repo.ConversionsRepo 实现。
type StatsReader interface {
	Summary(ctx context.Context, since time.Time) ([]repo.OpSummary, error)
}

// Deps 是挂载路由需要的全部依赖。除 Codec 外都可以为 nil：
// Cache 为 nil 时每次现算，Collector 为 nil 时不记事件，Limiter 为 nil 时不限流，
// Stats 为 nil 时 /admin/stats 返回 503。
type Deps struct {
	Codec     hangulnum.Converter
	Cache     *cache.VariantsCache
	Collector stats.Collector
	Limiter   httpmiddleware.Allower
	Stats     StatsReader
	Verifier  auth.Verifier
}

// RegisterAPIRoutes 在给定分组（一般是 /api/v1）下挂载编解码接口。
// 本包只做 HTTP <-> 领域的翻译，编解码逻辑在 internal/app/hangulnum。
func RegisterAPIRoutes(api *gee.RouterGroup, d Deps) {
	if d.Collector == nil {
		d.Collector = stats.NopCollector{}
	}
	h := &handlers{
		codec:     d.Codec,
		cache:     d.Cache,
		collector: d.Collector,
		stats:     d.Stats,
	}

	api.POST("/encode", httpmiddleware.RateLimit(d.Limiter, encodePolicy), h.encode)
	api.POST("/decode", httpmiddleware.RateLimit(d.Limiter, decodePolicy), h.decode)
	api.GET("/variants/{number}", httpmiddleware.RateLimit(d.Limiter, variantsPolicy), h.variants)

	if d.Verifier != nil {
		admin := api.Group("/admin")
		admin.Use(httpmiddleware.AuthRequired(d.Verifier), httpmiddleware.RequireRole(auth.RoleAdmin))
		admin.GET("/stats", h.adminStats)
	}
}
