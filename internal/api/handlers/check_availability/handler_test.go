package check_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkAvailability "github.com/m04kA/SMC-RentalService/internal/usecase/check_availability"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

type fakeUseCase struct {
	resp *checkAvailability.Response
	err  error
	got  *checkAvailability.Request
}

func (f *fakeUseCase) Execute(ctx context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/vehicles/{vehicleId}/check-availability", NewHandler(uc, logger.NewNop()).Handle).
		Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestHandler_Handle(t *testing.T) {
	uc := &fakeUseCase{resp: &checkAvailability.Response{Available: false, Message: checkAvailability.MsgBooked}}

	rec := serve(uc, "/api/v1/vehicles/7/check-availability",
		`{"startDate":"2024-06-01T00:00:00Z","endDate":"2024-06-03T00:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body CheckAvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Available)
	assert.Equal(t, checkAvailability.MsgBooked, body.Message)

	assert.Equal(t, int64(7), uc.got.VehicleID)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), uc.got.End.UTC())
}

func TestHandler_HandleErrors(t *testing.T) {
	validBody := `{"startDate":"2024-06-01T00:00:00Z","endDate":"2024-06-03T00:00:00Z"}`

	tests := []struct {
		name       string
		path       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "invalid id", path: "/api/v1/vehicles/abc/check-availability", body: validBody, wantStatus: http.StatusBadRequest},
		{name: "malformed body", path: "/api/v1/vehicles/7/check-availability", body: `{"startDate":"tomorrow"}`, wantStatus: http.StatusBadRequest},
		{name: "inverted range", path: "/api/v1/vehicles/7/check-availability", body: validBody, err: checkAvailability.ErrInvalidRange, wantStatus: http.StatusUnprocessableEntity},
		{name: "not found", path: "/api/v1/vehicles/7/check-availability", body: validBody, err: checkAvailability.ErrVehicleNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", path: "/api/v1/vehicles/7/check-availability", body: validBody, err: checkAvailability.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
