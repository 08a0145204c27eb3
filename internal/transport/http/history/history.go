package history

import (
	"net/http"

	"github.com/corray333/backend-labs/portal/internal/service/models/order"
	"github.com/corray333/backend-labs/portal/internal/service/services/desksvc"
	"github.com/corray333/backend-labs/portal/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

// service is an interface for the desk registry.
type service interface {
	Get(id string) (*desksvc.Desk, error)
}

type listHistoryRequest struct {
	Query string `schema:"q,omitempty"`
}

type historyEntry struct {
	order.Order
	GrossTotal float64 `json:"grossTotal"`
}

type historyResponse struct {
	Orders   []historyEntry `json:"orders"`
	Expanded string         `json:"expanded"`
}

type toggleResponse struct {
	Expanded string `json:"expanded"`
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

func viewerOf(w http.ResponseWriter, r *http.Request, service service) (*desksvc.Desk, bool) {
	desk, err := service.Get(chi.URLParam(r, "deskID"))
	if err != nil {
		respond.Error(w, r, err)

		return nil, false
	}

	return desk, true
}

// ListHistory reloads the retained orders and returns those matching q.
func ListHistory(w http.ResponseWriter, r *http.Request, service service) {
	query := &listHistoryRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, r, err)

		return
	}
	desk, ok := viewerOf(w, r, service)
	if !ok {
		return
	}

	if _, err := desk.History.Load(r.Context()); err != nil {
		respond.Error(w, r, err)

		return
	}

	matched := desk.History.Filter(query.Query)
	entries := make([]historyEntry, len(matched))
	for i, o := range matched {
		entries[i] = historyEntry{Order: o, GrossTotal: o.GrossTotal()}
	}

	respond.JSON(w, r, http.StatusOK, historyResponse{
		Orders:   entries,
		Expanded: desk.History.Expanded(),
	})
}

// ToggleOrder expands an order, or collapses it when already expanded.
func ToggleOrder(w http.ResponseWriter, r *http.Request, service service) {
	desk, ok := viewerOf(w, r, service)
	if !ok {
		return
	}

	expanded, err := desk.History.Toggle(chi.URLParam(r, "orderID"))
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusOK, toggleResponse{Expanded: expanded})
}

// CollapseHistory hides the expanded order.
func CollapseHistory(w http.ResponseWriter, r *http.Request, service service) {
	desk, ok := viewerOf(w, r, service)
	if !ok {
		return
	}

	desk.History.Collapse()
	w.WriteHeader(http.StatusNoContent)
}
