package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/swiftcab/swiftcab/internal/api/models"
	"github.com/swiftcab/swiftcab/internal/api/response"
	"github.com/swiftcab/swiftcab/internal/booking"
	"github.com/swiftcab/swiftcab/internal/fleet"
	"github.com/swiftcab/swiftcab/internal/geocoding"
	"github.com/swiftcab/swiftcab/internal/quote"
	"github.com/swiftcab/swiftcab/internal/routing"
)

// BookingHandler handles quoting and booking lifecycle endpoints.
type BookingHandler struct {
	quotes   *quote.Builder
	bookings *booking.Service
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(quotes *quote.Builder, bookings *booking.Service) *BookingHandler {
	return &BookingHandler{
		quotes:   quotes,
		bookings: bookings,
	}
}

// Estimate handles POST /booking/estimate - price a trip between two addresses.
func (h *BookingHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	pickup := strings.TrimSpace(r.URL.Query().Get("pickup"))
	drop := strings.TrimSpace(r.URL.Query().Get("drop"))

	var fieldErrors []models.FieldError
	if pickup == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "pickup", Message: "must not be empty", Code: "REQUIRED"})
	}
	if drop == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "drop", Message: "must not be empty", Code: "REQUIRED"})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "pickup and drop addresses are required", fieldErrors)
		return
	}

	q, err := h.quotes.BuildQuote(r.Context(), pickup, drop)
	if err != nil {
		writeQuoteError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewQuote(q))
}

// writeQuoteError maps quote pipeline failures onto the HTTP surface.
// Geocode, route and fleet failures are caller-visible 400s; a tripped
// provider circuit is a 503.
func writeQuoteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, geocoding.ErrEmptyAddress):
		response.BadRequest(w, r, "address must not be empty", nil)
	case errors.Is(err, geocoding.ErrLocationNotFound):
		response.BadRequest(w, r, "could not resolve address to a location", nil)
	case errors.Is(err, quote.ErrNoTaxiAvailable):
		response.BadRequest(w, r, "no taxi available near pickup", nil)
	case errors.Is(err, routing.ErrRouteUnavailable), errors.Is(err, routing.ErrInvalidCoordinates):
		response.BadRequest(w, r, "no drivable route between pickup and drop", nil)
	case errors.Is(err, geocoding.ErrProviderUnavailable), errors.Is(err, routing.ErrProviderUnavailable):
		response.ServiceUnavailable(w, r, "upstream provider temporarily unavailable")
	default:
		response.InternalError(w, r, "failed to build quote")
	}
}

// Confirm handles POST /booking/confirm - turn a quote into a booking.
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var input models.Quote
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	b, err := h.bookings.Confirm(r.Context(), input.ToDomain())
	switch {
	case err == nil:
		response.JSON(w, r, http.StatusOK, models.NewBooking(b))
	case errors.Is(err, booking.ErrInvalidQuote):
		response.BadRequest(w, r, "quote is missing a taxi assignment", []models.FieldError{
			{Field: "taxi", Message: "must not be empty", Code: "REQUIRED"},
		})
	case errors.Is(err, fleet.ErrTaxiUnavailable):
		response.BadRequest(w, r, "taxi is no longer available", nil)
	default:
		response.InternalError(w, r, "failed to confirm booking")
	}
}

// EstimateCancelFee handles GET /booking/estimate_cancel_fee/{bookingID} -
// dry-run the cancellation fee without touching the booking.
func (h *BookingHandler) EstimateCancelFee(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")

	est, err := h.bookings.EstimateCancelFee(r.Context(), bookingID)
	switch {
	case err == nil:
		response.JSON(w, r, http.StatusOK, models.NewCancelFeeEstimate(est))
	case errors.Is(err, booking.ErrBookingNotFound):
		response.NotFound(w, r, "booking not found")
	default:
		response.InternalError(w, r, "failed to estimate cancellation fee")
	}
}

// Cancel handles POST /booking/cancel/{bookingID} - cancel a booking,
// release its taxi and charge any cancellation fee.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")

	result, err := h.bookings.Cancel(r.Context(), bookingID)
	switch {
	case err == nil:
		response.JSON(w, r, http.StatusOK, models.NewCancelResult(result))
	case errors.Is(err, booking.ErrBookingNotFound):
		response.NotFound(w, r, "booking not found")
	default:
		response.InternalError(w, r, "failed to cancel booking")
	}
}
