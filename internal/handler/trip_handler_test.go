package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lapster88/anchorpoint/internal/dto"
	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/service"
	"github.com/stretchr/testify/assert"
)

// --- Mock PartyService ---

type mockPartyService struct {
	createFn func(ctx context.Context, tripID uint, input service.CreatePartyInput) (*service.CreatePartyResult, error)
	updateFn func(ctx context.Context, tripID, partyID uint, size int) (*models.TripParty, error)
	getFn    func(ctx context.Context, tripID, partyID uint) (*models.TripParty, error)
	listFn   func(ctx context.Context, tripID uint) ([]models.TripParty, error)
}

func (m *mockPartyService) CreateParty(ctx context.Context, tripID uint, input service.CreatePartyInput) (*service.CreatePartyResult, error) {
	return m.createFn(ctx, tripID, input)
}
func (m *mockPartyService) UpdatePartySize(ctx context.Context, tripID, partyID uint, size int) (*models.TripParty, error) {
	return m.updateFn(ctx, tripID, partyID, size)
}
func (m *mockPartyService) GetParty(ctx context.Context, tripID, partyID uint) (*models.TripParty, error) {
	return m.getFn(ctx, tripID, partyID)
}
func (m *mockPartyService) ListByTrip(ctx context.Context, tripID uint) ([]models.TripParty, error) {
	return m.listFn(ctx, tripID)
}

// --- Tests ---

func newPartyContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/1/parties", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	return c, rec
}

func TestCreateParty_Handler_Success(t *testing.T) {
	svc := &mockPartyService{
		createFn: func(ctx context.Context, tripID uint, input service.CreatePartyInput) (*service.CreatePartyResult, error) {
			return &service.CreatePartyResult{
				Party: &models.TripParty{
					ID:            7,
					TripID:        tripID,
					PartySize:     2,
					PaymentStatus: models.PaymentPending,
					InfoStatus:    models.InfoPending,
					WaiverStatus:  models.WaiverPending,
				},
				Payment:     &models.Payment{ID: 3, AmountCents: 30000},
				CheckoutURL: "http://checkout.test/cs_1",
				GuestToken:  "raw-token",
			}, nil
		},
	}

	body := `{"party_size":2,"guests":[{"email":"alice@example.com","first_name":"Alice"}]}`
	c, rec := newPartyContext(t, body)

	h := NewTripHandler(nil, svc, nil)
	err := h.CreateParty(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.CreatePartyResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(7), resp.Party.ID)
	assert.Equal(t, "pending", resp.Party.DisplayStatus)
	assert.Equal(t, "http://checkout.test/cs_1", resp.CheckoutURL)
	assert.Equal(t, "raw-token", resp.GuestToken)
}

func TestCreateParty_Handler_TripNotFound(t *testing.T) {
	svc := &mockPartyService{
		createFn: func(ctx context.Context, tripID uint, input service.CreatePartyInput) (*service.CreatePartyResult, error) {
			return nil, service.ErrTripNotFound
		},
	}

	body := `{"party_size":1,"guests":[{"email":"alice@example.com"}]}`
	c, _ := newPartyContext(t, body)

	h := NewTripHandler(nil, svc, nil)
	err := h.CreateParty(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestCreateParty_Handler_NoGuests(t *testing.T) {
	svc := &mockPartyService{
		createFn: func(ctx context.Context, tripID uint, input service.CreatePartyInput) (*service.CreatePartyResult, error) {
			return nil, service.ErrNoGuests
		},
	}

	c, _ := newPartyContext(t, `{"party_size":2,"guests":[]}`)

	h := NewTripHandler(nil, svc, nil)
	err := h.CreateParty(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestUpdatePartySize_Handler_TooSmall(t *testing.T) {
	svc := &mockPartyService{
		updateFn: func(ctx context.Context, tripID, partyID uint, size int) (*models.TripParty, error) {
			return nil, service.ErrPartySizeTooSmall
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/trips/1/parties/7", strings.NewReader(`{"party_size":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "party_id")
	c.SetParamValues("1", "7")

	h := NewTripHandler(nil, svc, nil)
	err := h.UpdatePartySize(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestUpdatePartySize_Handler_NonPositive(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/trips/1/parties/7", strings.NewReader(`{"party_size":0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "party_id")
	c.SetParamValues("1", "7")

	h := NewTripHandler(nil, nil, nil)
	err := h.UpdatePartySize(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateParty_Handler_InvalidTripID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/abc/parties", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	h := NewTripHandler(nil, nil, nil)
	err := h.CreateParty(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
