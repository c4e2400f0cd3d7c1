package providers

import (
	"ecotracker/internal/structures"
	"net/http"
	"strings"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	Group(prefix string) RouterProviderInterface
	GetRoutes() []structures.Route
}

type routeTable struct {
	routes []structures.Route
}

type RouterProvider struct {
	table  *routeTable
	prefix string
}

func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	rp.table.routes = append(rp.table.routes, structures.Route{
		Method:  method,
		Url:     joinPath(rp.prefix, url),
		Handler: methodHandler(method, handler),
	})
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

// Group returns a router whose routes share the prefix and land in the same table.
func (rp *RouterProvider) Group(prefix string) RouterProviderInterface {
	return &RouterProvider{table: rp.table, prefix: joinPath(rp.prefix, prefix)}
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.table.routes
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{table: &routeTable{}}
}

func joinPath(prefix, url string) string {
	if prefix == "" {
		return url
	}
	if url == "" || url == "/" {
		return prefix
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(url, "/")
}

func methodHandler(method string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
