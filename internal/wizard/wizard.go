// Package wizard implements the four-step signup flow: plan selection,
// personal info, format selection, payment. The machine enforces step gating
// (a step is only reachable once every step before it validated) and produces
// the immutable SubscriptionProfile snapshot on completion.
package wizard

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/models"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/pricing"
)

// Wizard steps.
const (
	StepPlanSelection   = 1
	StepPersonalInfo    = 2
	StepFormatSelection = 3
	StepPayment         = 4
)

// ErrMissingProof is returned by Complete when no payment-proof reference has
// been attached. Submission without proof never constructs a profile.
var ErrMissingProof = errors.New("payment proof required")

// ErrIncomplete is returned by Complete before the payment step is reached.
var ErrIncomplete = errors.New("wizard not at payment step")

// Draft is the in-progress subscription submission owned by the machine until
// Complete hands the snapshot over.
type Draft struct {
	FullName       string `json:"full_name" validate:"required"`
	Email          string `json:"email" validate:"required"`
	Phone          string `json:"phone" validate:"min=9"`
	TelegramHandle string `json:"telegram_handle" validate:"tg_handle"`
	Country        string `json:"country"`
	Plan           string `json:"plan"`
	DurationMonths int    `json:"duration_months"`
	Format         string `json:"format"`
	IsStudent      bool   `json:"is_student"`
}

// FieldErrors holds the step-2 per-field validation flags. All four are
// recomputed together on every advance attempt.
type FieldErrors struct {
	FullName       bool `json:"full_name"`
	Email          bool `json:"email"`
	Phone          bool `json:"phone"`
	TelegramHandle bool `json:"telegram_handle"`
}

// Any reports whether any field failed.
func (e FieldErrors) Any() bool {
	return e.FullName || e.Email || e.Phone || e.TelegramHandle
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Telegram handles must carry the @ prefix with at least one character
	// after it.
	_ = v.RegisterValidation("tg_handle", func(fl validator.FieldLevel) bool {
		h := fl.Field().String()
		return strings.HasPrefix(h, "@") && len(h) > 1
	})
	return v
}

// Machine is the wizard state for one signup session. Invariant:
// 1 <= Step() <= MaxStepReached() <= 4. Not safe for concurrent use; the
// wizard store serializes access per session.
type Machine struct {
	current     int
	maxReached  int
	draft       Draft
	fieldErrors FieldErrors
}

// New starts a wizard at step 1 with the default duration selected.
func New() *Machine {
	return &Machine{
		current:    StepPlanSelection,
		maxReached: StepPlanSelection,
		draft:      Draft{DurationMonths: 12, Country: models.CountryMyanmar},
	}
}

// Step returns the current step.
func (m *Machine) Step() int { return m.current }

// MaxStepReached returns the highest step ever validated into.
func (m *Machine) MaxStepReached() int { return m.maxReached }

// Draft returns a copy of the in-progress submission.
func (m *Machine) Draft() Draft { return m.draft }

// FieldErrors returns the flags from the latest step-2 advance attempt.
func (m *Machine) FieldErrors() FieldErrors { return m.fieldErrors }

// SelectPlan records the chosen plan tier. Unknown names are rejected by the
// HTTP layer against the catalog before they get here.
func (m *Machine) SelectPlan(name string) {
	m.draft.Plan = name
}

// SelectDuration records the term length. The student offer is bound to the
// 12-month term, so shortening the term clears the flag.
func (m *Machine) SelectDuration(months int) bool {
	if !models.IsValidDuration(months) {
		return false
	}
	m.draft.DurationMonths = months
	if months != 12 {
		m.draft.IsStudent = false
	}
	return true
}

// ToggleStudent sets the student flag.
func (m *Machine) ToggleStudent(isStudent bool) {
	m.draft.IsStudent = isStudent
}

// SetPersonalInfo records the step-2 fields. Values are trimmed; validation
// happens at the advance attempt, not here.
func (m *Machine) SetPersonalInfo(fullName, email, phone, telegram, country string) {
	m.draft.FullName = strings.TrimSpace(fullName)
	m.draft.Email = strings.TrimSpace(email)
	m.draft.Phone = strings.TrimSpace(phone)
	m.draft.TelegramHandle = strings.TrimSpace(telegram)
	if country == models.CountryMyanmar || country == models.CountryThailand {
		m.draft.Country = country
	}
}

// SelectFormat records the software format choice.
func (m *Machine) SelectFormat(format string) bool {
	switch format {
	case models.FormatMax, models.FormatSketchUp, models.FormatBoth:
		m.draft.Format = format
		return true
	}
	return false
}

// Advance validates the current step and, on success, moves one step forward
// (clamped to the payment step) and raises the reach watermark. It reports
// whether the step moved; on a step-2 failure the field flags are set and
// readable via FieldErrors.
func (m *Machine) Advance() bool {
	if !m.validateCurrent() {
		return false
	}
	if m.current < StepPayment {
		m.current++
	}
	if m.current > m.maxReached {
		m.maxReached = m.current
	}
	return true
}

func (m *Machine) validateCurrent() bool {
	switch m.current {
	case StepPlanSelection:
		// no field errors here: the UI disables the button instead
		return m.draft.Plan != ""

	case StepPersonalInfo:
		m.fieldErrors = FieldErrors{}
		if err := validate.Struct(m.draft); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					switch fe.Field() {
					case "FullName":
						m.fieldErrors.FullName = true
					case "Email":
						m.fieldErrors.Email = true
					case "Phone":
						m.fieldErrors.Phone = true
					case "TelegramHandle":
						m.fieldErrors.TelegramHandle = true
					}
				}
			}
		}
		return !m.fieldErrors.Any()

	case StepFormatSelection:
		// Premium includes both libraries; the choice is forced, not asked
		if m.draft.Plan == models.PlanPremium {
			m.draft.Format = models.FormatBoth
			return true
		}
		return m.draft.Format != ""

	default:
		return true
	}
}

// Retreat moves one step back, clamped to step 1. The reach watermark is
// untouched so forward navigation stays open.
func (m *Machine) Retreat() {
	if m.current > StepPlanSelection {
		m.current--
	}
}

// JumpTo navigates directly to a previously reached step. Steps beyond the
// watermark are silently ignored: this is a navigation affordance, not a
// security boundary.
func (m *Machine) JumpTo(step int) {
	if step < StepPlanSelection || step > m.maxReached {
		return
	}
	m.current = step
}

// Reset returns the wizard to a fresh step 1 and discards the draft.
func (m *Machine) Reset() {
	*m = *New()
}

// Complete produces the immutable SubscriptionProfile snapshot from the draft.
// It refuses to construct a profile before the payment step or without a
// payment-proof reference. The end date covers the paid term, the bonus
// months, and the verification grace days.
func (m *Machine) Complete(proofURL string, now time.Time) (*models.SubscriptionProfile, error) {
	if m.current != StepPayment {
		return nil, ErrIncomplete
	}
	if strings.TrimSpace(proofURL) == "" {
		return nil, ErrMissingProof
	}

	months := pricing.SubscriptionMonths(m.draft.DurationMonths)
	end := now.AddDate(0, months, pricing.GraceDays)

	return &models.SubscriptionProfile{
		ID:             uuid.NewString(),
		FullName:       m.draft.FullName,
		Email:          m.draft.Email,
		Phone:          m.draft.Phone,
		TelegramHandle: m.draft.TelegramHandle,
		Country:        m.draft.Country,
		Plan:           m.draft.Plan,
		DurationMonths: m.draft.DurationMonths,
		Format:         m.draft.Format,
		IsStudent:      m.draft.IsStudent,
		ProofURL:       proofURL,
		ApprovalStatus: models.StatusPending,
		StartDate:      now,
		EndDate:        end,
		CreatedAt:      now,
	}, nil
}
