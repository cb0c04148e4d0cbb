package donors

import (
	"context"
	"errors"

	"github.com/donorhub/donorhub/internal/auth"
	"github.com/donorhub/donorhub/internal/shared"
)

// Registration carries the fields collected on the registration form.
type Registration struct {
	Email      string
	Password   string
	Username   string
	Mobile     string
	BloodGroup string
	Hometown   string
}

// Profile is the authenticated donor's own view of their record, as served
// by the profile data endpoint. The password hash never leaves the service.
type Profile struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	Mobile       string `json:"mobile"`
	BloodGroup   string `json:"bloodGroup"`
	Hometown     string `json:"hometown"`
	LastDonation string `json:"lastDonation,omitempty"`
}

// Service handles donor registration, profile and listing logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Register hashes the password and inserts a new donor. The advisory
// FindByEmail gives a friendly duplicate answer in the common case; the
// store's unique constraint is what actually guarantees one row per email.
func (s *Service) Register(ctx context.Context, reg Registration) (*Donor, error) {
	if _, err := s.repo.FindByEmail(ctx, reg.Email); err == nil {
		return nil, shared.ErrDuplicateEmail
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	donor := &Donor{
		Email:        reg.Email,
		PasswordHash: hash,
		Username:     reg.Username,
		Mobile:       reg.Mobile,
		BloodGroup:   reg.BloodGroup,
		Hometown:     reg.Hometown,
	}
	if err := s.repo.Create(ctx, donor); err != nil {
		return nil, err
	}
	return donor, nil
}

// GetProfile returns the donor's own profile by session email.
func (s *Service) GetProfile(ctx context.Context, email string) (*Profile, error) {
	donor, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Email:        donor.Email,
		Username:     donor.Username,
		Mobile:       donor.Mobile,
		BloodGroup:   donor.BloodGroup,
		Hometown:     donor.Hometown,
		LastDonation: formatDonationDate(donor.LastDonation),
	}, nil
}

// UpdateProfile applies the mutable fields for the donor identified by the
// session email. Blood group stays whatever it was at registration.
func (s *Service) UpdateProfile(ctx context.Context, email string, update ProfileUpdate) error {
	return s.repo.UpdateProfile(ctx, email, update)
}

// ListDonors returns the public donor list projection.
func (s *Service) ListDonors(ctx context.Context) ([]DonorCard, error) {
	return s.repo.ListCards(ctx)
}
