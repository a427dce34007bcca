package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "catalogdash/pkg/contracts/api/v1"
)

// ChartsHandler serves the chart catalogue used to fill the dashboard dropdown
type ChartsHandler struct {
	options func() []api.ChartOption
}

// NewChartsHandler creates a charts handler backed by options
func NewChartsHandler(options func() []api.ChartOption) *ChartsHandler {
	return &ChartsHandler{options: options}
}

// Routes returns the chart catalogue routes
func (h *ChartsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}

// List handles GET /api/charts
func (h *ChartsHandler) List(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.ChartOptionsResponse{Charts: h.options()})
}
