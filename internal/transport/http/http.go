package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/portal/internal/service/models/catalog"
	"github.com/corray333/backend-labs/portal/internal/service/services/desksvc"
	"github.com/corray333/backend-labs/portal/internal/transport/http/desks"
	"github.com/corray333/backend-labs/portal/internal/transport/http/getcatalog"
	"github.com/corray333/backend-labs/portal/internal/transport/http/history"
	"github.com/corray333/backend-labs/portal/internal/transport/http/orderform"
	"github.com/corray333/backend-labs/portal/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/portal/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type service interface {
	Open(branch string) (*desksvc.Desk, error)
	Get(id string) (*desksvc.Desk, error)
	Close(id string) error
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
	catalog *catalog.Catalog
}

func NewHTTPTransport(service service, cat *catalog.Catalog) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
		catalog: cat,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Handler returns the router, for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/catalog", h.getCatalog)

		r.Post("/desks", h.openDesk)
		r.Route("/desks/{deskID}", func(r chi.Router) {
			r.Get("/", h.getDesk)
			r.Delete("/", h.closeDesk)

			r.Put("/header", h.setHeader)
			r.Put("/customer", h.setCustomer)
			r.Post("/customer/select", h.selectCustomer)
			r.Put("/category", h.setCategory)
			r.Put("/item-search", h.setItemSearch)
			r.Post("/products/select", h.selectProduct)
			r.Post("/items", h.addItem)
			r.Delete("/items/{itemID}", h.removeItem)
			r.Post("/submit", h.submit)

			r.Get("/history", h.listHistory)
			r.Post("/history/{orderID}/toggle", h.toggleOrder)
			r.Delete("/history/expanded", h.collapseHistory)
		})
	})
}

func (h *HTTPTransport) getCatalog(w http.ResponseWriter, r *http.Request) {
	getcatalog.GetCatalog(w, r, h.catalog)
}

func (h *HTTPTransport) openDesk(w http.ResponseWriter, r *http.Request) {
	desks.OpenDesk(w, r, h.service)
}

func (h *HTTPTransport) getDesk(w http.ResponseWriter, r *http.Request) {
	desks.GetDesk(w, r, h.service)
}

func (h *HTTPTransport) closeDesk(w http.ResponseWriter, r *http.Request) {
	desks.CloseDesk(w, r, h.service)
}

func (h *HTTPTransport) setHeader(w http.ResponseWriter, r *http.Request) {
	orderform.SetHeader(w, r, h.service)
}

func (h *HTTPTransport) setCustomer(w http.ResponseWriter, r *http.Request) {
	orderform.SetCustomer(w, r, h.service)
}

func (h *HTTPTransport) selectCustomer(w http.ResponseWriter, r *http.Request) {
	orderform.SelectCustomer(w, r, h.service)
}

func (h *HTTPTransport) setCategory(w http.ResponseWriter, r *http.Request) {
	orderform.SetCategory(w, r, h.service)
}

func (h *HTTPTransport) setItemSearch(w http.ResponseWriter, r *http.Request) {
	orderform.SetItemSearch(w, r, h.service)
}

func (h *HTTPTransport) selectProduct(w http.ResponseWriter, r *http.Request) {
	orderform.SelectProduct(w, r, h.service)
}

func (h *HTTPTransport) addItem(w http.ResponseWriter, r *http.Request) {
	orderform.AddItem(w, r, h.service)
}

func (h *HTTPTransport) removeItem(w http.ResponseWriter, r *http.Request) {
	orderform.RemoveItem(w, r, h.service)
}

func (h *HTTPTransport) submit(w http.ResponseWriter, r *http.Request) {
	orderform.Submit(w, r, h.service)
}

func (h *HTTPTransport) listHistory(w http.ResponseWriter, r *http.Request) {
	history.ListHistory(w, r, h.service)
}

func (h *HTTPTransport) toggleOrder(w http.ResponseWriter, r *http.Request) {
	history.ToggleOrder(w, r, h.service)
}

func (h *HTTPTransport) collapseHistory(w http.ResponseWriter, r *http.Request) {
	history.CollapseHistory(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
