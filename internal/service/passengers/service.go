package passengers

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicoreyes-dev/airgo/internal/domain"
	"github.com/nicoreyes-dev/airgo/internal/repository"
)

type Repo interface {
	Create(ctx context.Context, p *domain.Passenger) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Passenger, error)
	GetByDocument(ctx context.Context, document string) (*domain.Passenger, error)
	GetByEmail(ctx context.Context, email string) (*domain.Passenger, error)
	Update(ctx context.Context, p *domain.Passenger) error
	List(ctx context.Context, limit, offset int) ([]domain.Passenger, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{repo: repo}
}

// Register creates a passenger. Document and email are both natural keys;
// registering either twice is a conflict.
func (s *Service) Register(ctx context.Context, p *domain.Passenger) (*domain.Passenger, error) {
	const op = "service.passengers.Register"

	if p.Name == "" || p.Document == "" || p.Email == "" {
		return nil, fmt.Errorf("%s: name, document and email are required: %w", op, ErrInvalidPassenger)
	}

	if err := s.emailFree(ctx, p.Email, 0); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if p.DocumentType == "" {
		p.DocumentType = domain.DocumentDNI
	}

	p.Active = true

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
		case errors.Is(err, repository.ErrConflict):
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateDocument)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p.ID = id

	return p, nil
}

// emailFree reports whether the email belongs to no passenger other than
// ownerID. The unique index on passengers.email catches the concurrent
// writer this read cannot see.
func (s *Service) emailFree(ctx context.Context, email string, ownerID int64) error {
	other, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if other.ID != ownerID {
		return ErrDuplicateEmail
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Passenger, error) {
	const op = "service.passengers.Get"

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Service) GetByDocument(ctx context.Context, document string) (*domain.Passenger, error) {
	const op = "service.passengers.GetByDocument"

	p, err := s.repo.GetByDocument(ctx, document)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.Passenger, error) {
	const op = "service.passengers.GetByEmail"

	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// Update replaces the passenger's profile fields.
func (s *Service) Update(ctx context.Context, p *domain.Passenger) (*domain.Passenger, error) {
	const op = "service.passengers.Update"

	if p.ID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPassenger)
	}

	if p.Name == "" || p.Document == "" || p.Email == "" {
		return nil, fmt.Errorf("%s: name, document and email are required: %w", op, ErrInvalidPassenger)
	}

	if err := s.emailFree(ctx, p.Email, p.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
		case errors.Is(err, repository.ErrConflict):
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateDocument)
		default:
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return p, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Passenger, error) {
	const op = "service.passengers.List"

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	out, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
