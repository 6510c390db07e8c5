package passengers

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
	byID       map[int64]*domain.Passenger
	byDocument map[string]*domain.Passenger
	lastLimit  int
	lastOffset int
	nextID     int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:       make(map[int64]*domain.Passenger),
		byDocument: make(map[string]*domain.Passenger),
	}
}

func (f *fakeRepo) Create(_ context.Context, p *domain.Passenger) (int64, error) {
	if _, ok := f.byDocument[p.Document]; ok {
		return 0, repository.ErrConflict
	}
	f.nextID++
	cp := *p
	cp.ID = f.nextID
	f.byID[cp.ID] = &cp
	f.byDocument[cp.Document] = &cp
	return cp.ID, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*domain.Passenger, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) GetByDocument(_ context.Context, document string) (*domain.Passenger, error) {
	p, ok := f.byDocument[document]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*domain.Passenger, error) {
	for _, p := range f.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) Update(_ context.Context, p *domain.Passenger) error {
	cur, ok := f.byID[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if other, ok := f.byDocument[p.Document]; ok && other.ID != p.ID {
		return repository.ErrConflict
	}
	delete(f.byDocument, cur.Document)
	cp := *p
	f.byID[cp.ID] = &cp
	f.byDocument[cp.Document] = &cp
	return nil
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]domain.Passenger, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	var out []domain.Passenger
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func validPassenger() *domain.Passenger {
	return &domain.Passenger{
		Name:      "Maria Quispe",
		Document:  "45678901",
		Email:     "maria@example.com",
		Phone:     "+51 999 888 777",
		BirthDate: time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
	}
}

func TestRegister(t *testing.T) {
	svc := New(newFakeRepo())

	p, err := svc.Register(context.Background(), validPassenger())
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.True(t, p.Active)
	assert.Equal(t, domain.DocumentDNI, p.DocumentType)
}

func TestRegisterKeepsDocumentType(t *testing.T) {
	svc := New(newFakeRepo())

	in := validPassenger()
	in.DocumentType = domain.DocumentPassport

	p, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentPassport, p.DocumentType)
}

func TestRegisterValidation(t *testing.T) {
	svc := New(newFakeRepo())
	ctx := context.Background()

	for _, mutate := range []func(p *domain.Passenger){
		func(p *domain.Passenger) { p.Name = "" },
		func(p *domain.Passenger) { p.Document = "" },
		func(p *domain.Passenger) { p.Email = "" },
	} {
		p := validPassenger()
		mutate(p)
		_, err := svc.Register(ctx, p)
		assert.ErrorIs(t, err, ErrInvalidPassenger)
	}
}

func TestRegisterDuplicateDocument(t *testing.T) {
	svc := New(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, validPassenger())
	require.NoError(t, err)

	again := validPassenger()
	again.Email = "other@example.com"
	_, err = svc.Register(ctx, again)
	assert.ErrorIs(t, err, ErrDuplicateDocument)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := New(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, validPassenger())
	require.NoError(t, err)

	again := validPassenger()
	again.Document = "99887766"
	_, err = svc.Register(ctx, again)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUpdateEmailConflict(t *testing.T) {
	svc := New(newFakeRepo())
	ctx := context.Background()

	first, err := svc.Register(ctx, validPassenger())
	require.NoError(t, err)

	second := validPassenger()
	second.Document = "11223344"
	second.Email = "second@example.com"
	created, err := svc.Register(ctx, second)
	require.NoError(t, err)

	// taking another passenger's email is a conflict
	created.Email = first.Email
	_, err = svc.Update(ctx, created)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// keeping your own email is not
	first.Phone = "+51 000 111 222"
	_, err = svc.Update(ctx, first)
	assert.NoError(t, err)
}

func TestLookups(t *testing.T) {
	svc := New(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Register(ctx, validPassenger())
	require.NoError(t, err)

	byID, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Document, byID.Document)

	byDoc, err := svc.GetByDocument(ctx, created.Document)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byDoc.ID)

	byEmail, err := svc.GetByEmail(ctx, created.Email)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetByDocument(ctx, "00000000")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate(t *testing.T) {
	svc := New(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Register(ctx, validPassenger())
	require.NoError(t, err)

	created.Phone = "+51 111 222 333"
	updated, err := svc.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "+51 111 222 333", updated.Phone)

	missing := validPassenger()
	missing.ID = 999
	_, err = svc.Update(ctx, missing)
	assert.ErrorIs(t, err, ErrNotFound)

	noID := validPassenger()
	_, err = svc.Update(ctx, noID)
	assert.ErrorIs(t, err, ErrInvalidPassenger)
}

func TestUpdateDocumentConflict(t *testing.T) {
	svc := New(newFakeRepo())
	ctx := context.Background()

	first, err := svc.Register(ctx, validPassenger())
	require.NoError(t, err)

	second := validPassenger()
	second.Document = "11223344"
	second.Email = "second@example.com"
	created, err := svc.Register(ctx, second)
	require.NoError(t, err)

	created.Document = first.Document
	_, err = svc.Update(ctx, created)
	assert.ErrorIs(t, err, ErrDuplicateDocument)
}

func TestListClampsLimit(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)
	ctx := context.Background()

	_, err := svc.List(ctx, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)

	_, err = svc.List(ctx, 1000, 10)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)
	assert.Equal(t, 10, repo.lastOffset)

	_, err = svc.List(ctx, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastLimit)
}
