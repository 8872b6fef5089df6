package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lapster88/anchorpoint/internal/dto"
	"github.com/lapster88/anchorpoint/internal/service"
)

type TripHandler struct {
	trips       service.TripService
	parties     service.PartyService
	assignments service.AssignmentService
}

func NewTripHandler(trips service.TripService, parties service.PartyService, assignments service.AssignmentService) *TripHandler {
	return &TripHandler{trips: trips, parties: parties, assignments: assignments}
}

func (h *TripHandler) RegisterRoutes(e *echo.Echo) {
	trips := e.Group("/api/v1/trips")
	trips.POST("", h.CreateTrip)
	trips.GET("", h.ListTrips)
	trips.GET("/:id", h.GetTrip)
	trips.PATCH("/:id", h.UpdateTrip)

	trips.POST("/:id/parties", h.CreateParty)
	trips.GET("/:id/parties", h.ListParties)
	trips.GET("/:id/parties/:party_id", h.GetParty)
	trips.PATCH("/:id/parties/:party_id", h.UpdatePartySize)

	trips.GET("/:id/assignments", h.ListAssignments)
	trips.POST("/:id/assign-guides", h.ReplaceGuides)
}

func (h *TripHandler) CreateTrip(c echo.Context) error {
	var req dto.CreateTripRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.GuideServiceID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "guide_service_id is required")
	}
	if req.Start.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "start is required")
	}

	trip, err := h.trips.CreateTrip(c.Request().Context(), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrTemplateInactive),
			errors.Is(err, service.ErrTemplateOtherService),
			errors.Is(err, service.ErrPriceRequired),
			errors.Is(err, service.ErrInvalidTiming),
			errors.Is(err, service.ErrDuplicateGuides),
			errors.Is(err, service.ErrNotServiceGuide):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToTripResponse(trip))
}

func (h *TripHandler) UpdateTrip(c echo.Context) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid trip id")
	}

	var req dto.UpdateTripRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	trip, err := h.trips.UpdateTrip(c.Request().Context(), tripID, req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTripNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidTiming):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToTripResponse(trip))
}

func (h *TripHandler) GetTrip(c echo.Context) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid trip id")
	}

	trip, err := h.trips.GetTrip(c.Request().Context(), tripID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "trip not found")
	}

	return c.JSON(http.StatusOK, dto.ToTripResponse(trip))
}

func (h *TripHandler) ListTrips(c echo.Context) error {
	serviceID, err := strconv.ParseUint(c.QueryParam("guide_service_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "guide_service_id is required")
	}

	trips, err := h.trips.ListTrips(c.Request().Context(), uint(serviceID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.TripResponse, len(trips))
	for i := range trips {
		resp[i] = dto.ToTripResponse(&trips[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *TripHandler) CreateParty(c echo.Context) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid trip id")
	}

	var req dto.CreatePartyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.parties.CreateParty(c.Request().Context(), tripID, req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTripNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNoGuests), errors.Is(err, service.ErrGuestEmailRequired):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.CreatePartyResponse{
		Party:       dto.ToPartyResponse(result.Party),
		CheckoutURL: result.CheckoutURL,
		GuestToken:  result.GuestToken,
	})
}

func (h *TripHandler) UpdatePartySize(c echo.Context) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid trip id")
	}
	partyID, err := parseID(c, "party_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid party id")
	}

	var req dto.UpdatePartySizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.PartySize <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "party_size must be positive")
	}

	party, err := h.parties.UpdatePartySize(c.Request().Context(), tripID, partyID, req.PartySize)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPartyNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPartySizeTooSmall):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

func (h *TripHandler) GetParty(c echo.Context) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid trip id")
	}
	partyID, err := parseID(c, "party_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid party id")
	}

	party, err := h.parties.GetParty(c.Request().Context(), tripID, partyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "party not found")
	}
	return c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

func (h *TripHandler) ListParties(c echo.Context) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid trip id")
	}

	parties, err := h.parties.ListByTrip(c.Request().Context(), tripID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.PartyResponse, len(parties))
	for i := range parties {
		resp[i] = dto.ToPartyResponse(&parties[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *TripHandler) ListAssignments(c echo.Context) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid trip id")
	}

	assignments, err := h.assignments.ListByTrip(c.Request().Context(), tripID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.AssignmentResponse, len(assignments))
	for i := range assignments {
		resp[i] = dto.ToAssignmentResponse(&assignments[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *TripHandler) ReplaceGuides(c echo.Context) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid trip id")
	}

	var req dto.ReplaceGuidesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	assignments, err := h.assignments.ReplaceAssignments(c.Request().Context(), tripID, req.GuideIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTripNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDuplicateGuides), errors.Is(err, service.ErrNotServiceGuide):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	resp := make([]dto.AssignmentResponse, len(assignments))
	for i := range assignments {
		resp[i] = dto.ToAssignmentResponse(&assignments[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
