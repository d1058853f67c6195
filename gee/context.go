package gee

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
)

type H map[string]any

// RequestIDHeader 在请求和响应上携带请求序号。
const RequestIDHeader = "X-Request-ID"

// abortIndex 要大于任何真实 handler 下标，又不能大到嵌套 Next() 自增时溢出。
const abortIndex = math.MaxInt32

type Context struct {
	Writer *ResponseWriter
	Req    *http.Request

	Path         string
	Method       string
	RoutePattern string // 命中的路由模板，未命中时为空

	handlers []HandlerFunc
	index    int
}

func newContext(w http.ResponseWriter, req *http.Request) *Context {
	return &Context{
		Writer: NewResponseWriter(w),
		Req:    req,
		Path:   req.URL.Path,
		Method: req.Method,
		index:  -1,
	}
}

// Param 返回路由模板中 {name} 对应的值。
func (c *Context) Param(key string) string {
	return c.Req.PathValue(key)
}

func (c *Context) Query(key string) string {
	return c.Req.URL.Query().Get(key)
}

// RequestID 返回 ReqID 中间件写入的请求序号，没有就是空串。
func (c *Context) RequestID() string {
	return c.Req.Header.Get(RequestIDHeader)
}

func (c *Context) Next() {
	c.index++
	for s := len(c.handlers); c.index < s && !c.IsAborted(); c.index++ {
		c.handlers[c.index](c)
	}
}

func (c *Context) Abort() {
	c.index = abortIndex
}

func (c *Context) IsAborted() bool {
	return c.index >= abortIndex
}

func (c *Context) Status(code int) {
	c.Writer.WriteHeader(code)
}

func (c *Context) SetHeader(key string, value string) {
	c.Writer.SetHeader(key, value)
}

func (c *Context) String(code int, format string, values ...any) {
	c.SetHeader("Content-Type", "text/plain; charset=utf-8")
	c.Status(code)
	fmt.Fprintf(c.Writer, format, values...)
}

// JSON 直接流式编码到响应。
func (c *Context) JSON(code int, obj any) {
	c.SetHeader("Content-Type", "application/json; charset=utf-8")
	c.Status(code)
	if err := json.NewEncoder(c.Writer).Encode(obj); err != nil {
		http.Error(c.Writer, err.Error(), http.StatusInternalServerError)
	}
}

func (c *Context) AbortWithStatus(code int) {
	c.Status(code)
	c.Abort()
}

// AbortWithStatusJSON 先 Marshal 再写，编码失败时还能改成 500；响应已写出则只中断链。
func (c *Context) AbortWithStatusJSON(code int, obj any) {
	c.Abort()
	if c.Writer.Written() {
		return
	}
	body, err := json.Marshal(obj)
	if err != nil {
		code = http.StatusInternalServerError
		body = []byte(`{"code":500,"message":"Internal Server Error"}`)
	}
	c.SetHeader("Content-Type", "application/json; charset=utf-8")
	c.Status(code)
	c.Writer.Write(body)
}

// ErrorResponse 是所有错误响应的统一格式。
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (c *Context) AbortWithError(code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: c.RequestID(),
	})
}

// MaxBodyBytes 是 ShouldBindJSON 读取请求体的上限。
const MaxBodyBytes = 64 << 10

var (
	ErrEmptyBody     = errors.New("empty body")
	ErrTrailingValue = errors.New("body must contain only one JSON value")
	ErrBodyTooLarge  = errors.New("request body too large")
)

// ShouldBindJSON 只解析 JSON，拒绝未知字段和多余内容，请求体超过 MaxBodyBytes 直接报错。
func (c *Context) ShouldBindJSON(dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Req.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return bindError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if tooLarge(err) {
			return ErrBodyTooLarge
		}
		return ErrTrailingValue
	}
	return nil
}

func bindError(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		return ErrEmptyBody
	case tooLarge(err):
		return ErrBodyTooLarge
	}
	return err
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// BindJSON 解析失败时直接写 400，请求体过大写 413。
func (c *Context) BindJSON(dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, ErrBodyTooLarge) {
			c.AbortWithError(http.StatusRequestEntityTooLarge, err.Error())
			return err
		}
		c.AbortWithError(http.StatusBadRequest, "invalid json")
		return err
	}
	return nil
}
