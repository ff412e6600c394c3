package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

type fakeService struct {
	err   error
	calls int
}

func (s *fakeService) Cancel(ctx context.Context, bookingID int64, userID int64, isAdmin bool) (*models.BookingResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{ID: bookingID, Status: "cancelled"}, nil
}

func TestHandler_Handle(t *testing.T) {
	userCtx := middleware.WithUser(context.Background(), 10, middleware.RoleUser)

	tests := []struct {
		name       string
		path       string
		ctx        context.Context
		err        error
		wantStatus int
		wantCalls  int
	}{
		{name: "cancelled", path: "/api/v1/bookings/3/cancel", ctx: userCtx, wantStatus: http.StatusOK, wantCalls: 1},
		{name: "invalid id", path: "/api/v1/bookings/x/cancel", ctx: userCtx, wantStatus: http.StatusBadRequest},
		{name: "no user", path: "/api/v1/bookings/3/cancel", ctx: context.Background(), wantStatus: http.StatusUnauthorized},
		{name: "not found", path: "/api/v1/bookings/3/cancel", ctx: userCtx, err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound, wantCalls: 1},
		{name: "forbidden", path: "/api/v1/bookings/3/cancel", ctx: userCtx, err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden, wantCalls: 1},
		{name: "too late", path: "/api/v1/bookings/3/cancel", ctx: userCtx, err: bookings.ErrCannotCancel, wantStatus: http.StatusBadRequest, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			router := mux.NewRouter()
			router.HandleFunc("/api/v1/bookings/{bookingId}/cancel", NewHandler(svc, logger.NewNop()).Handle).
				Methods(http.MethodPatch)

			req := httptest.NewRequest(http.MethodPatch, tt.path, nil).WithContext(tt.ctx)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalls, svc.calls)
		})
	}
}
