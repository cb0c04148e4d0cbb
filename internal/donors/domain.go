package donors

import "time"

// Donor represents a registered blood donor. Email is the unique login
// identifier; BloodGroup is fixed at registration and has no update path.
type Donor struct {
	ID           int64
	Email        string
	PasswordHash string
	Username     string
	Mobile       string
	BloodGroup   string
	Hometown     string
	LastDonation *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DonorCard is the public projection served on the donor list. It never
// carries the donor's email or password hash.
type DonorCard struct {
	Username     string `json:"username"`
	BloodGroup   string `json:"blood"`
	Mobile       string `json:"mobile"`
	LastDonation string `json:"lastDonation,omitempty"`
}

// ProfileUpdate carries the mutable profile fields. Blood group is absent on
// purpose: submitting one has no effect.
type ProfileUpdate struct {
	Username     string
	Mobile       string
	Hometown     string
	LastDonation *time.Time
}

// DonationDateLayout is the wire format for last-donation dates.
const DonationDateLayout = "2006-01-02"

func formatDonationDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DonationDateLayout)
}
