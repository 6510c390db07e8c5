package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicoreyes-dev/airgo/internal/domain"
)

type PassengerRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *PassengerRepo) With(db DB) *PassengerRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *PassengerRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const passengerColumns = `id, user_id, name, document_type, document, email, phone, birth_date, active`

func scanPassenger(row pgx.Row) (*domain.Passenger, error) {
	var p domain.Passenger
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.DocumentType, &p.Document,
		&p.Email, &p.Phone, &p.BirthDate, &p.Active,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PassengerRepo) Create(ctx context.Context, p *domain.Passenger) (int64, error) {
	const op = "postgres.PassengerRepo.Create"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO passengers(user_id, name, document_type, document, email, phone, birth_date, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		p.UserID, p.Name, p.DocumentType, p.Document, p.Email, p.Phone, p.BirthDate, p.Active,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *PassengerRepo) Get(ctx context.Context, id int64) (*domain.Passenger, error) {
	const op = "postgres.PassengerRepo.Get"

	db := r.handle()

	p, err := scanPassenger(db.QueryRow(ctx,
		`SELECT `+passengerColumns+` FROM passengers WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return p, nil
}

func (r *PassengerRepo) GetByDocument(ctx context.Context, document string) (*domain.Passenger, error) {
	const op = "postgres.PassengerRepo.GetByDocument"

	db := r.handle()

	p, err := scanPassenger(db.QueryRow(ctx,
		`SELECT `+passengerColumns+` FROM passengers WHERE document = $1`, document))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return p, nil
}

func (r *PassengerRepo) GetByEmail(ctx context.Context, email string) (*domain.Passenger, error) {
	const op = "postgres.PassengerRepo.GetByEmail"

	db := r.handle()

	p, err := scanPassenger(db.QueryRow(ctx,
		`SELECT `+passengerColumns+` FROM passengers WHERE email = $1`, email))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return p, nil
}

func (r *PassengerRepo) Update(ctx context.Context, p *domain.Passenger) error {
	const op = "postgres.PassengerRepo.Update"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE passengers
		 SET name = $2, document_type = $3, document = $4, email = $5,
		     phone = $6, birth_date = $7, active = $8
		 WHERE id = $1`,
		p.ID, p.Name, p.DocumentType, p.Document, p.Email, p.Phone, p.BirthDate, p.Active,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

func (r *PassengerRepo) List(ctx context.Context, limit, offset int) ([]domain.Passenger, error) {
	const op = "postgres.PassengerRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+passengerColumns+` FROM passengers ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Passenger
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
