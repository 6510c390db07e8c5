package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicoreyes-dev/airgo/internal/domain"
	"github.com/nicoreyes-dev/airgo/internal/repository"
)

type fakeRepo struct {
	lastFrom, lastTo time.Time
	lastLimit        int
}

func (f *fakeRepo) Dashboard(context.Context) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{Airplanes: 3}, nil
}

func (f *fakeRepo) Income(_ context.Context, from, to time.Time) (*domain.IncomeReport, error) {
	f.lastFrom, f.lastTo = from, to
	return &domain.IncomeReport{From: from, To: to}, nil
}

func (f *fakeRepo) Occupancy(_ context.Context, flightID int64) (*domain.FlightOccupancy, error) {
	if flightID != 1 {
		return nil, repository.ErrNotFound
	}
	return &domain.FlightOccupancy{FlightID: flightID}, nil
}

func (f *fakeRepo) PopularFlights(_ context.Context, limit int) ([]domain.PopularFlight, error) {
	f.lastLimit = limit
	return nil, nil
}

func (f *fakeRepo) FrequentPassengers(_ context.Context, limit int) ([]domain.FrequentPassenger, error) {
	f.lastLimit = limit
	return nil, nil
}

func TestIncomeDefaultsToLast30Days(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)

	_, err := svc.Income(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now(), repo.lastTo, time.Minute)
	assert.WithinDuration(t, repo.lastTo.AddDate(0, 0, -30), repo.lastFrom, time.Minute)
}

func TestIncomeRejectsReversedRange(t *testing.T) {
	svc := New(&fakeRepo{})

	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Income(context.Background(), to.AddDate(0, 1, 0), to)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestOccupancyNotFound(t *testing.T) {
	svc := New(&fakeRepo{})

	_, err := svc.Occupancy(context.Background(), 2)
	assert.ErrorIs(t, err, ErrFlightNotFound)

	o, err := svc.Occupancy(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.FlightID)
}

func TestTopListsClampLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)
	ctx := context.Background()

	_, err := svc.PopularFlights(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastLimit)

	_, err = svc.FrequentPassengers(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastLimit)
}
