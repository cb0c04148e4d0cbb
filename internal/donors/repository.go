package donors

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donorhub/donorhub/internal/shared"
)

// RepositoryPort defines data access methods for donors.
type RepositoryPort interface {
	FindByEmail(ctx context.Context, email string) (*Donor, error)
	Create(ctx context.Context, donor *Donor) error
	UpdateProfile(ctx context.Context, email string, update ProfileUpdate) error
	ListCards(ctx context.Context) ([]DonorCard, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const uniqueViolation = "23505"

// FindByEmail fetches a donor by email. Comparison is byte-exact.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*Donor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, username, mobile, blood_group, hometown, last_donation, created_at, updated_at
		FROM donors WHERE email = $1`, email)
	var d Donor
	if err := row.Scan(&d.ID, &d.Email, &d.PasswordHash, &d.Username, &d.Mobile, &d.BloodGroup, &d.Hometown, &d.LastDonation, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Create inserts a new donor. The unique index on email closes the window
// between the advisory duplicate check and the insert; a concurrent
// registration surfaces as ErrDuplicateEmail rather than a second row.
func (r *Repository) Create(ctx context.Context, donor *Donor) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO donors (email, password_hash, username, mobile, blood_group, hometown, last_donation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		donor.Email, donor.PasswordHash, donor.Username, donor.Mobile, donor.BloodGroup, donor.Hometown, donor.LastDonation,
	).Scan(&donor.ID, &donor.CreatedAt, &donor.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return shared.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// UpdateProfile persists the mutable profile fields for the donor identified
// by email. Last writer wins; blood group is deliberately not touched.
func (r *Repository) UpdateProfile(ctx context.Context, email string, update ProfileUpdate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE donors
		SET username = $1, mobile = $2, hometown = $3, last_donation = $4, updated_at = now()
		WHERE email = $5`,
		update.Username, update.Mobile, update.Hometown, update.LastDonation, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListCards returns the public projection of every donor.
func (r *Repository) ListCards(ctx context.Context) ([]DonorCard, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT username, blood_group, mobile, last_donation
		FROM donors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cards []DonorCard
	for rows.Next() {
		var (
			card DonorCard
			last *time.Time
		)
		if err := rows.Scan(&card.Username, &card.BloodGroup, &card.Mobile, &last); err != nil {
			return nil, err
		}
		card.LastDonation = formatDonationDate(last)
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

var _ RepositoryPort = (*Repository)(nil)
