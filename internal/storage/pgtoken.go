package storage

import (
	"context"
	"errors"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/token"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTokenStore persists token.Token records in a single table
// keyed by the opaque id every connection string and registration token
// is minted from.
type PostgresTokenStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresTokenStore(pool *pgxpool.Pool) *PostgresTokenStore {
	return &PostgresTokenStore{Pool: pool}
}

func (s *PostgresTokenStore) Issue(ctx context.Context, t token.Token) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO tokens (id, expiration, meta)
		VALUES ($1, $2, $3)
	`, t.ID, t.Expiration, string(t.Meta))
	return err
}

func (s *PostgresTokenStore) Get(ctx context.Context, id string) (token.Token, error) {
	var t token.Token
	var meta string
	err := s.Pool.QueryRow(ctx, `
		SELECT id, expiration, meta FROM tokens WHERE id = $1
	`, id).Scan(&t.ID, &t.Expiration, &meta)
	if errors.Is(err, pgx.ErrNoRows) {
		return token.Token{}, errors.New("token not found")
	}
	if err != nil {
		return token.Token{}, err
	}
	t.Meta = token.MetaKind(meta)
	if t.IsExpired(time.Now()) {
		return token.Token{}, errors.New("token expired")
	}
	return t, nil
}

// CheckAndInvalidate atomically fetches and deletes a single-use
// registration token so it cannot be redeemed twice, mirroring the
// row-lock-then-consume pattern the teacher uses for one-time credentials.
func (s *PostgresTokenStore) CheckAndInvalidate(ctx context.Context, id string) (token.Token, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return token.Token{}, err
	}
	defer tx.Rollback(ctx)

	var t token.Token
	var meta string
	err = tx.QueryRow(ctx, `
		SELECT id, expiration, meta FROM tokens WHERE id = $1 FOR UPDATE
	`, id).Scan(&t.ID, &t.Expiration, &meta)
	if errors.Is(err, pgx.ErrNoRows) {
		return token.Token{}, errors.New("token not found")
	}
	if err != nil {
		return token.Token{}, err
	}
	t.Meta = token.MetaKind(meta)

	if _, err := tx.Exec(ctx, `DELETE FROM tokens WHERE id = $1`, id); err != nil {
		return token.Token{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return token.Token{}, err
	}

	if t.IsExpired(time.Now()) {
		return token.Token{}, errors.New("token expired")
	}
	return t, nil
}
