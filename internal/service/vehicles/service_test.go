package vehicles

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	vehicleRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/vehicle"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

type fakeRepo struct {
	vehicle *domain.Vehicle
	err     error
}

func (r *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return r.vehicle, r.err
}

func TestService_GetByID(t *testing.T) {
	s := NewService(&fakeRepo{vehicle: &domain.Vehicle{
		ID: 3, Make: "Toyota", Model: "Innova", Year: 2022, PricePerDay: 350000, IsAvailable: true,
	}}, logger.NewNop())

	resp, err := s.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Toyota Innova (2022)", resp.Title)
	assert.Equal(t, int64(350000), resp.PricePerDay)
}

func TestService_GetByIDErrors(t *testing.T) {
	s := NewService(&fakeRepo{err: vehicleRepo.ErrVehicleNotFound}, logger.NewNop())
	_, err := s.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	s = NewService(&fakeRepo{err: errors.New("timeout")}, logger.NewNop())
	_, err = s.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrInternal)
}
