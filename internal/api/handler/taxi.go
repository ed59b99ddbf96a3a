package handler

import (
	"net/http"

	"github.com/swiftcab/swiftcab/internal/api/models"
	"github.com/swiftcab/swiftcab/internal/api/response"
	"github.com/swiftcab/swiftcab/internal/fleet"
)

// TaxiHandler handles fleet endpoints.
type TaxiHandler struct {
	locator *fleet.Locator
	repo    fleet.Repository
}

// NewTaxiHandler creates a new TaxiHandler.
func NewTaxiHandler(locator *fleet.Locator, repo fleet.Repository) *TaxiHandler {
	return &TaxiHandler{
		locator: locator,
		repo:    repo,
	}
}

// List handles GET /taxis - the registered fleet plus a fresh simulated batch.
func (h *TaxiHandler) List(w http.ResponseWriter, r *http.Request) {
	taxis, err := h.locator.Candidates(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list taxis")
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewTaxis(taxis))
}

// Reset handles POST /taxis/reset - mark every registered taxi available.
func (h *TaxiHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.ResetAll(r.Context()); err != nil {
		response.InternalError(w, r, "failed to reset fleet")
		return
	}

	response.JSON(w, r, http.StatusOK, models.StatusOK{Status: "OK"})
}
