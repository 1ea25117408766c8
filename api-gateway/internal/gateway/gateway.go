package gateway

import (
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"restaurant-pos/envelope"

	"github.com/gorilla/mux"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	MenuSvcURL      string
	OrderSvcURL     string
	AnalyticsSvcURL string
}

// route sends every path equal to or below prefix to target.
type route struct {
	prefix string
	target func(Config) string
}

func menuSvc(c Config) string      { return c.MenuSvcURL }
func orderSvc(c Config) string     { return c.OrderSvcURL }
func analyticsSvc(c Config) string { return c.AnalyticsSvcURL }

var routes = []route{
	{prefix: "/api/dishes", target: menuSvc},
	{prefix: "/api/ingredients", target: menuSvc},
	{prefix: "/api/orders", target: orderSvc},
	{prefix: "/api/analytics", target: analyticsSvc},
	{prefix: "/api/predictions", target: analyticsSvc},
	{prefix: "/api/sync", target: analyticsSvc},
}

// hopHeaders are connection-scoped and never forwarded.
var hopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

type Gateway struct {
	config Config
	client HTTPClient
}

func NewGateway(config Config, client HTTPClient) *Gateway {
	return &Gateway{
		config: config,
		client: client,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	envelope.WriteData(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "api-gateway",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	log.Printf("PROXY: %s %s -> %s%s", r.Method, r.URL.Path, targetURL, r.URL.Path)

	url := strings.TrimSuffix(targetURL, "/") + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		log.Printf("ERROR: Failed to create request: %v", err)
		envelope.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	copyHeaders(req.Header, r.Header)

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("ERROR: Failed to proxy to %s: %v", targetURL, err)
		envelope.WriteError(w, http.StatusBadGateway, "Service unavailable")
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("ERROR: Failed to copy response: %v", err)
	}
}

func copyHeaders(dst, src http.Header) {
	for k, v := range src {
		if hopHeaders[http.CanonicalHeaderKey(k)] {
			continue
		}
		dst[k] = append([]string(nil), v...)
	}
}

// Target returns the upstream base URL for path and false when no service owns it.
func (g *Gateway) Target(path string) (string, bool) {
	for _, rt := range routes {
		if path == rt.prefix || strings.HasPrefix(path, rt.prefix+"/") {
			return rt.target(g.config), true
		}
	}
	return "", false
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := g.Target(r.URL.Path)
	if !ok {
		log.Printf("[GATEWAY] Unmatched API route: %s", r.URL.Path)
		envelope.WriteError(w, http.StatusNotFound, "API route not found")
		return
	}
	g.ProxyRequest(w, r, target)
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelope.WriteError(w, http.StatusNotFound, "Not found")
	})
	return envelope.Recover(r)
}
