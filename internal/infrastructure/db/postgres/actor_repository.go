package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
)

var _ ports.ActorRepository = (*ActorRepository)(nil)

// The password digest is computed by the database so plaintext never leaves
// the query.
const findByCredentialsSQL = `
SELECT id, display_name, group_id
FROM users
WHERE lower(email) = lower($1)
  AND password_hash = encode(digest($2, 'sha1'), 'hex')`

type ActorRepository struct {
	pool *pgxpool.Pool
}

func NewActorRepository(pool *pgxpool.Pool) *ActorRepository {
	return &ActorRepository{pool: pool}
}

func (r *ActorRepository) FindByCredentials(ctx context.Context, email, password string) (*domain.Actor, error) {
	var (
		a     domain.Actor
		group int16
	)
	err := r.pool.QueryRow(ctx, findByCredentialsSQL, email, password).Scan(&a.ID, &a.DisplayName, &group)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, mapError("find actor", err)
	}
	a.Role = domain.Role(group)
	return &a, nil
}
