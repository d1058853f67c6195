package gee

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
)

type HandlerFunc func(*Context)

// catchAll 兜底路由：所有未匹配的请求都进这里，这样全局中间件（日志/指标/RequestID）对 404/405 也生效。
const catchAll = "/"

// Engine 基于 Go 1.22+ 的 http.ServeMux 做路由匹配（支持 "GET /items/{id}" 这种模式），
// 自己只负责中间件链、分组和 Context。
type Engine struct {
	*RouterGroup
	mux      *http.ServeMux
	groups   []*RouterGroup
	methods  map[string]struct{}
	noRoute  []HandlerFunc
	noMethod []HandlerFunc
}

type RouterGroup struct {
	prefix      string
	middlewares []HandlerFunc
	engine      *Engine
}

func New() *Engine {
	e := &Engine{
		mux:     http.NewServeMux(),
		methods: make(map[string]struct{}),
	}
	e.noRoute = []HandlerFunc{func(ctx *Context) { ctx.AbortWithError(http.StatusNotFound, "not found") }}
	e.noMethod = []HandlerFunc{func(ctx *Context) { ctx.AbortWithError(http.StatusMethodNotAllowed, "method not allowed") }}
	e.RouterGroup = &RouterGroup{engine: e}
	e.groups = []*RouterGroup{e.RouterGroup}
	e.mux.HandleFunc(catchAll, e.serveUnmatched)
	return e
}

func (e *Engine) NoRoute(handlers ...HandlerFunc) {
	e.noRoute = handlers
}

func (e *Engine) NoMethod(handlers ...HandlerFunc) {
	e.noMethod = handlers
}

func (group *RouterGroup) Group(prefix string) *RouterGroup {
	engine := group.engine
	newGroup := &RouterGroup{
		prefix: group.prefix + prefix,
		engine: engine,
	}
	engine.groups = append(engine.groups, newGroup)
	return newGroup
}

// Use 添加中间件
func (group *RouterGroup) Use(middlewares ...HandlerFunc) {
	group.middlewares = append(group.middlewares, middlewares...)
}

func (group *RouterGroup) addRoute(method string, comp string, handlers ...HandlerFunc) {
	if len(handlers) == 0 {
		panic("gee: addRoute requires at least one handler")
	}
	e := group.engine
	route := group.prefix + comp
	chain := append([]HandlerFunc(nil), handlers...)
	e.methods[method] = struct{}{}
	e.mux.HandleFunc(method+" "+route, func(w http.ResponseWriter, req *http.Request) {
		e.dispatch(w, req, route, chain)
	})
	slog.Debug("route registered", "method", method, "pattern", route)
}

func (group *RouterGroup) GET(pattern string, handlers ...HandlerFunc) {
	group.addRoute(http.MethodGet, pattern, handlers...)
}

func (group *RouterGroup) POST(pattern string, handlers ...HandlerFunc) {
	group.addRoute(http.MethodPost, pattern, handlers...)
}

func (group *RouterGroup) DELETE(pattern string, handlers ...HandlerFunc) {
	group.addRoute(http.MethodDelete, pattern, handlers...)
}

// dispatch 组装「匹配前缀的分组中间件 + 路由 handler」并执行。
// 中间件在请求时按前缀收集，所以先注册路由、后 Use 的中间件同样生效。
func (e *Engine) dispatch(w http.ResponseWriter, req *http.Request, route string, handlers []HandlerFunc) {
	var chain []HandlerFunc
	for _, group := range e.groups {
		if strings.HasPrefix(req.URL.Path, group.prefix) {
			chain = append(chain, group.middlewares...)
		}
	}
	ctx := newContext(w, req)
	ctx.RoutePattern = route
	ctx.handlers = append(chain, handlers...)
	ctx.Next()
}

func (e *Engine) serveUnmatched(w http.ResponseWriter, req *http.Request) {
	if allow := e.allowedMethods(req); len(allow) > 0 {
		w.Header().Set("Allow", strings.Join(allow, ","))
		e.dispatch(w, req, "", e.noMethod)
		return
	}
	e.dispatch(w, req, "", e.noRoute)
}

// allowedMethods 用其它已注册的方法探测同一路径，能命中非兜底路由的就是允许的方法。
func (e *Engine) allowedMethods(req *http.Request) []string {
	var allow []string
	for method := range e.methods {
		if method == req.Method {
			continue
		}
		probe := req.WithContext(req.Context())
		probe.Method = method
		if _, pattern := e.mux.Handler(probe); pattern != catchAll && pattern != "" {
			allow = append(allow, method)
		}
	}
	sort.Strings(allow)
	return allow
}

// ServeHTTP implements http.Handler interface
func (e *Engine) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	e.mux.ServeHTTP(w, req)
}
