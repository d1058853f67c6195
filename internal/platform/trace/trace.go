package trace

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TracerName 是业务 span 使用的 instrumentation 名称。
const TracerName = "hangulnum.local"

// 业务 span 上的属性键。
const (
	AttrOp     = "hangulnum.op"
	AttrNumber = "hangulnum.number"
	AttrSeed   = "hangulnum.seed"
	AttrCache  = "hangulnum.cache"
)

// InitTrace 初始化 OTLP gRPC 导出器并设为全局 TracerProvider。
// 失败时返回 nil，调用方按「未开启追踪」处理。
func InitTrace(endpoint string, serviceName string) (shutdown func(context.Context) error) {
	ctx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		slog.Error("otlp exporter init failed", "err", err, "endpoint", endpoint)
		return nil
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName))),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

// Tracer 返回业务 tracer。未初始化时 otel 给的是 no-op 实现，调用方无需判断。
func Tracer() oteltrace.Tracer {
	return otel.Tracer(TracerName)
}

// unmatchedSpanName 兜底路由 "/" 上的请求统一用这个名字，不按原始路径命名。
const unmatchedSpanName = "UNMATCHED"

// HTTPHandler 给对外 handler 套上 otelhttp，server span 以路由模板命名。
func HTTPHandler(h http.Handler) http.Handler {
	return otelhttp.NewHandler(h, "http", otelhttp.WithSpanNameFormatter(ServerSpanName))
}

// ServerSpanName 取 ServeMux 匹配到的模板，例如 "POST /api/v1/encode"。
// otelhttp 在 handler 返回后会用它重新命名 span，此时 r.Pattern 已经填好。
func ServerSpanName(operation string, r *http.Request) string {
	switch r.Pattern {
	case "":
		return operation
	case "/":
		return r.Method + " " + unmatchedSpanName
	}
	return r.Pattern
}
