package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"hangulnum.local/gee"
	"hangulnum.local/internal/app/hangulnum"
	"hangulnum.local/internal/app/hangulnum/cache"
	"hangulnum.local/internal/app/hangulnum/stats"
	"hangulnum.local/internal/platform/httpmiddleware"
	"hangulnum.local/internal/platform/metrics"
	"hangulnum.local/internal/platform/trace"
)

type handlers struct {
	codec     hangulnum.Converter
	cache     *cache.VariantsCache
	collector stats.Collector
	stats     StatsReader
}

// 数字在 JSON 里一律用十进制字符串，uint64 超出 JS 安全整数范围。

type EncodeRequest struct {
	Number string `json:"number"`
	Seed   *int   `json:"seed,omitempty"` // 不传则随机
}

type EncodeResponse struct {
	Number    string `json:"number"`
	Formatted string `json:"formatted"`
	Seed      int    `json:"seed"`
	Text      string `json:"text"`
	Symbols   int    `json:"symbols"`
}

type DecodeRequest struct {
	Text string `json:"text"`
}

type DecodeResponse struct {
	Number    string `json:"number"`
	Formatted string `json:"formatted"`
	Seed      int    `json:"seed"`
}

type VariantItem struct {
	Seed     int    `json:"seed"`
	Text     string `json:"text"`
	Verified bool   `json:"verified"`
}

type VariantsResponse struct {
	Number    string        `json:"number"`
	Formatted string        `json:"formatted"`
	Symbols   int           `json:"symbols"`
	Variants  []VariantItem `json:"variants"`
}

func (h *handlers) encode(ctx *gee.Context) {
	var req EncodeRequest
	if err := ctx.BindJSON(&req); err != nil {
		h.record(ctx, stats.ConversionEvent{Op: stats.OpEncode, Err: bindResult(err)})
		return
	}
	_, span := trace.Tracer().Start(ctx.Req.Context(), "hangulnum.encode")
	defer span.End()

	num, err := hangulnum.ParseNumber(req.Number)
	if err != nil {
		h.fail(ctx, span, stats.ConversionEvent{Op: stats.OpEncode}, err)
		return
	}
	span.SetAttributes(attribute.String(trace.AttrNumber, strconv.FormatUint(num, 10)))

	var text string
	seed := 0
	if req.Seed != nil {
		seed = *req.Seed
		text, err = h.codec.EncodeWithSeed(num, seed)
		if err != nil {
			h.fail(ctx, span, stats.ConversionEvent{Op: stats.OpEncode, Number: strconv.FormatUint(num, 10), Seed: req.Seed}, err)
			return
		}
	} else {
		text = h.codec.Encode(num)
		// 随机种子就是首个符号，解回来拿到
		_, seed, err = h.codec.DecodeSeed(text)
		if err != nil {
			h.fail(ctx, span, stats.ConversionEvent{Op: stats.OpEncode, Number: strconv.FormatUint(num, 10)}, err)
			return
		}
	}
	span.SetAttributes(attribute.Int(trace.AttrSeed, seed))

	numStr := strconv.FormatUint(num, 10)
	h.record(ctx, stats.ConversionEvent{Op: stats.OpEncode, Number: numStr, Text: text, Seed: intPtr(seed), OK: true})
	ctx.JSON(http.StatusOK, EncodeResponse{
		Number:    numStr,
		Formatted: hangulnum.FormatNumber(num),
		Seed:      seed,
		Text:      text,
		Symbols:   hangulnum.EncodedLen(num),
	})
}

func (h *handlers) decode(ctx *gee.Context) {
	var req DecodeRequest
	if err := ctx.BindJSON(&req); err != nil {
		h.record(ctx, stats.ConversionEvent{Op: stats.OpDecode, Err: bindResult(err)})
		return
	}
	_, span := trace.Tracer().Start(ctx.Req.Context(), "hangulnum.decode")
	defer span.End()

	if len(req.Text) > maxTextBytes {
		h.fail(ctx, span, stats.ConversionEvent{Op: stats.OpDecode, Text: truncateText(req.Text, maxTextBytes)}, errTextTooLong)
		return
	}
	num, seed, err := h.codec.DecodeSeed(req.Text)
	if err != nil {
		h.fail(ctx, span, stats.ConversionEvent{Op: stats.OpDecode, Text: req.Text}, err)
		return
	}
	numStr := strconv.FormatUint(num, 10)
	span.SetAttributes(attribute.String(trace.AttrNumber, numStr), attribute.Int(trace.AttrSeed, seed))

	h.record(ctx, stats.ConversionEvent{Op: stats.OpDecode, Number: numStr, Text: req.Text, Seed: intPtr(seed), OK: true})
	ctx.JSON(http.StatusOK, DecodeResponse{
		Number:    numStr,
		Formatted: hangulnum.FormatNumber(num),
		Seed:      seed,
	})
}

func (h *handlers) variants(ctx *gee.Context) {
	spanCtx, span := trace.Tracer().Start(ctx.Req.Context(), "hangulnum.variants")
	defer span.End()

	num, err := hangulnum.ParseNumber(ctx.Param("number"))
	if err != nil {
		h.fail(ctx, span, stats.ConversionEvent{Op: stats.OpVariants}, err)
		return
	}
	numStr := strconv.FormatUint(num, 10)
	span.SetAttributes(attribute.String(trace.AttrNumber, numStr))

	texts, source := h.lookupVariants(spanCtx, num)
	span.SetAttributes(attribute.String(trace.AttrCache, string(source)))

	// 缓存里的内容也要过一遍往返校验
	verified := hangulnum.VerifyVariants(h.codec, num, texts)
	items := make([]VariantItem, len(verified))
	for i, v := range verified {
		items[i] = VariantItem{Seed: v.Seed, Text: v.Text, Verified: v.Verified}
	}

	h.record(ctx, stats.ConversionEvent{Op: stats.OpVariants, Number: numStr, OK: true})
	ctx.JSON(http.StatusOK, VariantsResponse{
		Number:    numStr,
		Formatted: hangulnum.FormatNumber(num),
		Symbols:   hangulnum.EncodedLen(num),
		Variants:  items,
	})
}

func (h *handlers) lookupVariants(ctx context.Context, num uint64) ([]string, cache.Source) {
	compute := func() []string { return h.codec.EncodeAll(num) }
	if h.cache == nil {
		return compute(), cache.SourceCompute
	}
	return h.cache.GetOrCompute(ctx, num, compute)
}

// fail 统一处理领域错误：记 span、metrics、事件，写 400。
func (h *handlers) fail(ctx *gee.Context, span oteltrace.Span, event stats.ConversionEvent, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, resultOf(err))
	event.Err = resultOf(err)
	h.record(ctx, event)
	ctx.AbortWithError(statusOf(err), err.Error())
}

// record 补全公共字段后交给 collector，并计数。
func (h *handlers) record(ctx *gee.Context, event stats.ConversionEvent) {
	result := event.Err
	if event.OK {
		result = "ok"
	}
	metrics.Conversions.WithLabelValues(string(event.Op), result).Inc()

	event.IP = httpmiddleware.ClientIP(ctx.Req)
	event.At = time.Now()
	h.collector.Collect(event)
}
