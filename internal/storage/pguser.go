package storage

import (
	"context"
	"errors"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/google/uuid"
)

// PostgresUserStore implements ports.UserFetching/Registration/Updating/
// Deletion directly over pgx, the same plain-pool style PostgresTokenStore
// uses — the teacher's own sqlc-generated queries are out of reach here,
// see DESIGN.md's storage notes.
type PostgresUserStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{Pool: pool}
}

const userColumns = `
	id, username, email, first_name, last_name, is_active, is_principal,
	created, updated, account_id, provider_kind, password_hash,
	provider_issuer, totp_kind, totp_verified, totp_issuer, totp_secret
`

func scanUser(row pgx.Row) (dtos.User, error) {
	var u dtos.User
	var email, providerIssuer, totpIssuer, totpSecret, passwordHash string
	var providerKind, totpKind int
	var totpVerified bool

	err := row.Scan(
		&u.ID, &u.Username, &email, &u.FirstName, &u.LastName, &u.IsActive, &u.IsPrincipal,
		&u.Created, &u.Updated, &u.AccountID, &providerKind, &passwordHash,
		&providerIssuer, &totpKind, &totpVerified, &totpIssuer, &totpSecret,
	)
	if err != nil {
		return dtos.User{}, err
	}

	parsedEmail, parseErr := dtos.Parse(email)
	if parseErr != nil {
		return dtos.User{}, parseErr
	}
	u.Email = parsedEmail

	if dtos.ProviderKind(providerKind) == dtos.ProviderExternal {
		u.Provider = dtos.ProviderOfExternal(providerIssuer)
	} else {
		u.Provider = dtos.ProviderOfInternal(dtos.NewPasswordHash(passwordHash))
	}

	switch dtos.TotpKind(totpKind) {
	case dtos.TotpEnabled:
		u.MFA = dtos.MFA{Totp: dtos.TotpOfEnabled(totpVerified, totpIssuer, totpSecret)}
	case dtos.TotpUnknown:
		u.MFA = dtos.MFA{Totp: dtos.TotpOfUnknown()}
	default:
		u.MFA = dtos.MFA{Totp: dtos.TotpOfDisabled()}
	}

	return u, nil
}

func (s *PostgresUserStore) fetchOne(ctx context.Context, query string, arg any) (ports.FetchResponseKind[dtos.User], *mycerr.Error) {
	row := s.Pool.QueryRow(ctx, query, arg)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.NotFound[dtos.User](), nil
	}
	if err != nil {
		return ports.FetchResponseKind[dtos.User]{}, mycerr.FetchingErr("failed to fetch user").WithPrevious(err)
	}
	return ports.Found(u), nil
}

func (s *PostgresUserStore) Get(ctx context.Context, id uuid.UUID) (ports.FetchResponseKind[dtos.User], *mycerr.Error) {
	return s.fetchOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email dtos.Email) (ports.FetchResponseKind[dtos.User], *mycerr.Error) {
	return s.fetchOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email.String())
}

func (s *PostgresUserStore) Create(ctx context.Context, u dtos.User) (ports.CreateResponseKind[dtos.User], *mycerr.Error) {
	providerKind, passwordHash, providerIssuer := userProviderColumns(u)
	totpKind, totpVerified, totpIssuer, totpSecret := userTotpColumns(u)

	_, err := s.Pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		u.ID, u.Username, u.Email.String(), u.FirstName, u.LastName, u.IsActive, u.IsPrincipal,
		u.Created, u.Updated, u.AccountID, providerKind, passwordHash,
		providerIssuer, totpKind, totpVerified, totpIssuer, totpSecret,
	)
	if err != nil {
		return ports.NotCreated[dtos.User](err.Error()), mycerr.CreationErr("failed to create user").WithPrevious(err)
	}
	return ports.Created(u), nil
}

func (s *PostgresUserStore) Update(ctx context.Context, u dtos.User) (ports.UpdatingResponseKind[dtos.User], *mycerr.Error) {
	providerKind, passwordHash, providerIssuer := userProviderColumns(u)
	totpKind, totpVerified, totpIssuer, totpSecret := userTotpColumns(u)

	tag, err := s.Pool.Exec(ctx, `
		UPDATE users SET
			username = $2, email = $3, first_name = $4, last_name = $5,
			is_active = $6, is_principal = $7, updated = $8, account_id = $9,
			provider_kind = $10, password_hash = $11, provider_issuer = $12,
			totp_kind = $13, totp_verified = $14, totp_issuer = $15, totp_secret = $16
		WHERE id = $1
	`,
		u.ID, u.Username, u.Email.String(), u.FirstName, u.LastName,
		u.IsActive, u.IsPrincipal, u.Updated, u.AccountID,
		providerKind, passwordHash, providerIssuer,
		totpKind, totpVerified, totpIssuer, totpSecret,
	)
	if err != nil {
		return ports.NotUpdated[dtos.User](err.Error()), mycerr.UpdatingErr("failed to update user").WithPrevious(err)
	}
	if tag.RowsAffected() == 0 {
		return ports.NotUpdated[dtos.User]("user not found"), nil
	}
	return ports.Updated(u), nil
}

func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) (ports.DeletionResponseKind, *mycerr.Error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return ports.NotDeleted(err.Error()), mycerr.DeletionErr("failed to delete user").WithPrevious(err)
	}
	if tag.RowsAffected() == 0 {
		return ports.NotDeleted("user not found"), nil
	}
	return ports.Deleted(), nil
}

func userProviderColumns(u dtos.User) (kind int, passwordHash, issuer string) {
	if u.Provider.Kind == dtos.ProviderExternal {
		return int(dtos.ProviderExternal), "", u.Provider.Issuer
	}
	return int(dtos.ProviderInternal), u.Provider.Hash.Hash(), ""
}

func userTotpColumns(u dtos.User) (kind int, verified bool, issuer, secret string) {
	t := u.MFA.Totp
	return int(t.Kind), t.Verified, t.Issuer, t.Secret
}
