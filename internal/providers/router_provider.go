package providers

import (
	"net/http"
	"strings"
	"telemetryd/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

// RouterProvider collects handlers per path and method. GetRoutes yields one
// route per path so the result can be mounted on a ServeMux directly.
type RouterProvider struct {
	order    []string
	handlers map[string]map[string]http.Handler
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.handle(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.handle(http.MethodPost, url, handler)
}

func (rp *RouterProvider) handle(method, url string, handler http.Handler) {
	byMethod, ok := rp.handlers[url]
	if !ok {
		byMethod = make(map[string]http.Handler)
		rp.handlers[url] = byMethod
		rp.order = append(rp.order, url)
	}
	byMethod[method] = handler
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	routes := make([]structures.Route, 0, len(rp.order))
	for _, url := range rp.order {
		byMethod := rp.handlers[url]
		routes = append(routes, structures.Route{
			Url:     url,
			Methods: allowedMethods(byMethod),
			Handler: methodHandler(byMethod),
		})
	}
	return routes
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{handlers: make(map[string]map[string]http.Handler)}
}

// allowedMethods lists registered methods in a stable order; GET implies HEAD.
func allowedMethods(byMethod map[string]http.Handler) []string {
	var methods []string
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodPost} {
		_, ok := byMethod[m]
		if ok || (m == http.MethodHead && byMethod[http.MethodGet] != nil) {
			methods = append(methods, m)
		}
	}
	return methods
}

func methodHandler(byMethod map[string]http.Handler) http.Handler {
	allow := strings.Join(allowedMethods(byMethod), ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.Method
		if method == http.MethodHead {
			if _, ok := byMethod[http.MethodHead]; !ok {
				method = http.MethodGet
			}
		}
		handler, ok := byMethod[method]
		if !ok {
			w.Header().Set("Allow", allow)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
