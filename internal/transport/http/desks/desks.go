package desks

import (
	"net/http"
	"time"

	"github.com/corray333/backend-labs/portal/internal/service/services/composersvc"
	"github.com/corray333/backend-labs/portal/internal/service/services/desksvc"
	"github.com/corray333/backend-labs/portal/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the desk registry.
type service interface {
	Open(branch string) (*desksvc.Desk, error)
	Get(id string) (*desksvc.Desk, error)
	Close(id string) error
}

type openDeskRequest struct {
	Branch string `json:"branch" validate:"omitempty,max=64"`
}

type deskResponse struct {
	ID       string            `json:"id"`
	OpenedAt time.Time         `json:"openedAt"`
	State    composersvc.State `json:"state"`
}

func toResponse(desk *desksvc.Desk) deskResponse {
	return deskResponse{
		ID:       desk.ID,
		OpenedAt: desk.OpenedAt,
		State:    desk.Composer.State(),
	}
}

// OpenDesk opens a new order form.
func OpenDesk(w http.ResponseWriter, r *http.Request, service service) {
	req := openDeskRequest{}
	if err := respond.DecodeJSON(r, &req, true); err != nil {
		respond.BadRequest(w, r, err)

		return
	}

	desk, err := service.Open(req.Branch)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusCreated, toResponse(desk))
}

// GetDesk returns the current state of an order form.
func GetDesk(w http.ResponseWriter, r *http.Request, service service) {
	desk, err := service.Get(chi.URLParam(r, "deskID"))
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(desk))
}

// CloseDesk discards an order form.
func CloseDesk(w http.ResponseWriter, r *http.Request, service service) {
	if err := service.Close(chi.URLParam(r, "deskID")); err != nil {
		respond.Error(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
