package flights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicoreyes-dev/airgo/internal/domain"
	"github.com/nicoreyes-dev/airgo/internal/repository"
	postgresrepo "github.com/nicoreyes-dev/airgo/internal/repository/postgres"
)

type fakeRepo struct {
	byID       map[int64]*domain.Flight
	byNumber   map[string]*domain.Flight
	lastSearch postgresrepo.SearchParams
	nextID     int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:     make(map[int64]*domain.Flight),
		byNumber: make(map[string]*domain.Flight),
	}
}

func (f *fakeRepo) Create(_ context.Context, fl *domain.Flight) (*domain.Flight, error) {
	if _, ok := f.byNumber[fl.Number]; ok {
		return nil, repository.ErrConflict
	}
	f.nextID++
	out := *fl
	out.ID = f.nextID
	out.Active = true
	f.byID[out.ID] = &out
	f.byNumber[out.Number] = &out
	return &out, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*domain.Flight, error) {
	fl, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return fl, nil
}

func (f *fakeRepo) GetByNumber(_ context.Context, number string) (*domain.Flight, error) {
	fl, ok := f.byNumber[number]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return fl, nil
}

func (f *fakeRepo) SetStatus(_ context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	fl, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fl.Status = status
	return fl, nil
}

func (f *fakeRepo) Search(_ context.Context, p postgresrepo.SearchParams) ([]domain.Flight, error) {
	f.lastSearch = p
	var out []domain.Flight
	for _, fl := range f.byID {
		out = append(out, *fl)
	}
	return out, nil
}

func (f *fakeRepo) Availability(_ context.Context, flightID int64) (*domain.FlightAvailability, error) {
	if _, ok := f.byID[flightID]; !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.FlightAvailability{FlightID: flightID, TotalSeats: 6, Held: 2, Available: 4}, nil
}

func (f *fakeRepo) AvailableSeats(_ context.Context, flightID int64) ([]domain.Seat, error) {
	if _, ok := f.byID[flightID]; !ok {
		return nil, repository.ErrNotFound
	}
	return []domain.Seat{{ID: 1, Number: "1A"}}, nil
}

func validFlight() *domain.Flight {
	dep := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	return &domain.Flight{
		AirplaneID:     1,
		Number:         "AG205",
		Origin:         "Lima",
		Destination:    "Arequipa",
		Departure:      dep,
		Arrival:        dep.Add(90 * time.Minute),
		BasePriceCents: 120_00,
	}
}

func TestCreate(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, Config{})

	created, err := svc.Create(context.Background(), validFlight())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.FlightScheduled, created.Status)
}

func TestCreateValidation(t *testing.T) {
	svc := New(newFakeRepo(), nil, nil, Config{})
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(f *domain.Flight)
		wantErr error
	}{
		{"missing number", func(f *domain.Flight) { f.Number = "" }, ErrInvalidFlight},
		{"missing origin", func(f *domain.Flight) { f.Origin = "" }, ErrInvalidFlight},
		{"missing airplane", func(f *domain.Flight) { f.AirplaneID = 0 }, ErrInvalidFlight},
		{"same endpoints", func(f *domain.Flight) { f.Destination = f.Origin }, ErrInvalidFlight},
		{"arrival before departure", func(f *domain.Flight) { f.Arrival = f.Departure.Add(-time.Hour) }, ErrInvalidSchedule},
		{"arrival equals departure", func(f *domain.Flight) { f.Arrival = f.Departure }, ErrInvalidSchedule},
		{"negative price", func(f *domain.Flight) { f.BasePriceCents = -1 }, ErrInvalidFlight},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validFlight()
			tc.mutate(f)
			_, err := svc.Create(ctx, f)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateDuplicateNumber(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, Config{})
	ctx := context.Background()

	_, err := svc.Create(ctx, validFlight())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validFlight())
	assert.ErrorIs(t, err, ErrDuplicateNumber)
}

func TestGetNotFound(t *testing.T) {
	svc := New(newFakeRepo(), nil, nil, Config{})

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetByNumber(context.Background(), "AG999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, Config{})
	ctx := context.Background()

	created, err := svc.Create(ctx, validFlight())
	require.NoError(t, err)

	updated, err := svc.SetStatus(ctx, created.ID, domain.FlightBoarding)
	require.NoError(t, err)
	assert.Equal(t, domain.FlightBoarding, updated.Status)

	_, err = svc.SetStatus(ctx, created.ID, domain.FlightStatus("teleporting"))
	assert.ErrorIs(t, err, ErrInvalidFlight)

	_, err = svc.SetStatus(ctx, 999, domain.FlightLanded)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchClampsLimit(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, Config{})
	ctx := context.Background()

	_, err := svc.Search(ctx, postgresrepo.SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastSearch.Limit)

	_, err = svc.Search(ctx, postgresrepo.SearchParams{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastSearch.Limit)

	_, err = svc.Search(ctx, postgresrepo.SearchParams{Limit: 25, Origin: "Lima"})
	require.NoError(t, err)
	assert.Equal(t, 25, repo.lastSearch.Limit)
	assert.Equal(t, "Lima", repo.lastSearch.Origin)
}

func TestSearchKey(t *testing.T) {
	base := postgresrepo.SearchParams{Origin: "Lima", Destination: "Cusco", Limit: 50}

	assert.Equal(t, searchKey(base), searchKey(base))
	assert.Equal(t, searchKey(base), searchKey(postgresrepo.SearchParams{Origin: "lima", Destination: "CUSCO", Limit: 50}))

	other := base
	other.Offset = 50
	assert.NotEqual(t, searchKey(base), searchKey(other))

	filtered := base
	filtered.Statuses = []domain.FlightStatus{domain.FlightDelayed}
	assert.NotEqual(t, searchKey(base), searchKey(filtered))
}

func TestAvailability(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, Config{})
	ctx := context.Background()

	created, err := svc.Create(ctx, validFlight())
	require.NoError(t, err)

	a, err := svc.Availability(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, a.Available)

	seats, err := svc.AvailableSeats(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 1)

	_, err = svc.Availability(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
