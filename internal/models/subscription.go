package models

import "time"

// Plan name constants
const (
	PlanEssential    = "Essential"
	PlanProfessional = "Professional"
	PlanPremium      = "Premium"
)

// Software format constants
const (
	FormatMax      = "3ds Max"
	FormatSketchUp = "SketchUp"
	FormatBoth     = "Both"
)

// Country constants (payment currency routing)
const (
	CountryMyanmar  = "Myanmar"
	CountryThailand = "Thailand"
)

// Approval status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Valid subscription durations in months.
var ValidDurations = []int{3, 6, 12}

// IsValidDuration reports whether d is a sellable term length.
func IsValidDuration(d int) bool {
	for _, v := range ValidDurations {
		if v == d {
			return true
		}
	}
	return false
}

// SubscriptionProfile is the subscriber's submitted state. It is created by the
// signup wizard on completion, persisted to the record store and the session
// cache, and afterwards owned by the session resolver. Only ApprovalStatus is
// ever refreshed in place; everything else is immutable after submission.
type SubscriptionProfile struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	TelegramHandle string    `json:"telegram_handle"`
	Country        string    `json:"country"`
	Plan           string    `json:"plan"`
	DurationMonths int       `json:"duration_months"`
	Format         string    `json:"format"`
	IsStudent      bool      `json:"is_student"`
	ProofURL       string    `json:"proof_url,omitempty"`
	ApprovalStatus string    `json:"approval_status"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// Approved reports whether the subscriber has passed manual verification.
func (p *SubscriptionProfile) Approved() bool {
	return p.ApprovalStatus == StatusApproved
}
