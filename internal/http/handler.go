package http

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/catalog"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/entitlement"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/models"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/pricing"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/service"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/session"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/wizard"
)

// maxProofSize caps payment screenshot uploads at 10 MB.
const maxProofSize = 10 << 20

type Handler struct {
	signup    *service.SignupService
	resolver  *session.Resolver
	jwtSecret string
}

func NewHandler(signup *service.SignupService, resolver *session.Resolver, jwtSecret string) *Handler {
	return &Handler{
		signup:    signup,
		resolver:  resolver,
		jwtSecret: jwtSecret,
	}
}

// ==================== Catalog Handlers ====================

// GetPlans returns the plan table with per-duration pricing.
func (h *Handler) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": catalog.Plans})
}

// GetChannels returns the full channel catalog.
func (h *Handler) GetChannels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"channels": catalog.Channels})
}

// Quote computes the price breakdown for a plan/duration/student selection.
func (h *Handler) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := pricing.ComputeByName(req.Plan, req.Duration, req.IsStudent)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quote)
}

// ==================== Wizard Handlers ====================

// StartSignup opens a new wizard session.
func (h *Handler) StartSignup(c *gin.Context) {
	id := h.signup.Wizards().Create()
	v, err := h.signup.Wizards().Get(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, h.wizardState(v))
}

// GetSignup returns the wizard state, with payment instructions once the
// payment step is reached.
func (h *Handler) GetSignup(c *gin.Context) {
	v, err := h.signup.Wizards().Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "signup session not found"})
		return
	}
	c.JSON(http.StatusOK, h.wizardState(v))
}

// wizardState shapes a session snapshot for the client.
func (h *Handler) wizardState(v wizard.View) gin.H {
	state := gin.H{
		"id":               v.ID,
		"step":             v.Step,
		"max_step_reached": v.MaxStepReached,
		"draft":            v.Draft,
		"field_errors":     v.FieldErrors,
	}

	if v.Draft.Plan != "" {
		if quote, err := pricing.ComputeByName(v.Draft.Plan, v.Draft.DurationMonths, v.Draft.IsStudent); err == nil {
			state["quote"] = quote

			if v.Step == wizard.StepPayment {
				amount, currency := pricing.LocalAmount(quote.Total, v.Draft.Country)
				state["payment"] = gin.H{
					"amount_usd":   quote.Total,
					"amount_local": amount,
					"currency":     currency,
					"account":      catalog.BankDetails[v.Draft.Country],
				}
			}
		}
	}
	return state
}

// SelectPlan records plan, duration and student flag on the draft.
func (h *Handler) SelectPlan(c *gin.Context) {
	var req models.SelectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Plan != "" {
		if _, ok := catalog.PlanByName(req.Plan); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown plan"})
			return
		}
	}

	h.updateWizard(c, func(m *wizard.Machine) error {
		if req.Plan != "" {
			m.SelectPlan(req.Plan)
		}
		if req.Duration != 0 && !m.SelectDuration(req.Duration) {
			return errBadRequest("invalid duration")
		}
		if req.IsStudent != nil {
			m.ToggleStudent(*req.IsStudent)
		}
		return nil
	})
}

// PersonalInfo records the step-2 fields on the draft.
func (h *Handler) PersonalInfo(c *gin.Context) {
	var req models.PersonalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.updateWizard(c, func(m *wizard.Machine) error {
		m.SetPersonalInfo(req.FullName, req.Email, req.Phone, req.TelegramHandle, req.Country)
		return nil
	})
}

// SelectFormat records the software format choice.
func (h *Handler) SelectFormat(c *gin.Context) {
	var req models.SelectFormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.updateWizard(c, func(m *wizard.Machine) error {
		if !m.SelectFormat(req.Format) {
			return errBadRequest("invalid format")
		}
		return nil
	})
}

// Advance attempts to validate the current step and move forward. A blocked
// advance returns 422 with the state so the client can render field errors.
func (h *Handler) Advance(c *gin.Context) {
	id := c.Param("id")
	blocked := false

	err := h.signup.Wizards().Update(id, func(m *wizard.Machine) error {
		blocked = !m.Advance()
		return nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "signup session not found"})
		return
	}

	v, err := h.signup.Wizards().Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "signup session not found"})
		return
	}

	if blocked {
		c.JSON(http.StatusUnprocessableEntity, h.wizardState(v))
		return
	}
	c.JSON(http.StatusOK, h.wizardState(v))
}

// Back moves one step back.
func (h *Handler) Back(c *gin.Context) {
	h.updateWizard(c, func(m *wizard.Machine) error {
		m.Retreat()
		return nil
	})
}

// Goto navigates to a previously reached step. Jumps beyond the watermark
// are silently ignored, so this always answers with the current state.
func (h *Handler) Goto(c *gin.Context) {
	var req models.GotoStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.updateWizard(c, func(m *wizard.Machine) error {
		m.JumpTo(req.Step)
		return nil
	})
}

// updateWizard runs a mutation against a wizard session and answers with
// the refreshed state.
func (h *Handler) updateWizard(c *gin.Context, fn func(m *wizard.Machine) error) {
	id := c.Param("id")

	if err := h.signup.Wizards().Update(id, fn); err != nil {
		var br badRequestError
		switch {
		case errors.As(err, &br):
			c.JSON(http.StatusBadRequest, gin.H{"error": br.Error()})
		case errors.Is(err, wizard.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "signup session not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	v, err := h.signup.Wizards().Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "signup session not found"})
		return
	}
	c.JSON(http.StatusOK, h.wizardState(v))
}

type badRequestError string

func (e badRequestError) Error() string { return string(e) }

func errBadRequest(msg string) error { return badRequestError(msg) }

// Submit finishes the wizard: multipart screenshot upload, then the
// submission pipeline. On success the caller gets a session token and the
// persisted profile.
func (h *Handler) Submit(c *gin.Context) {
	file, err := c.FormFile("screenshot")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment screenshot required"})
		return
	}
	if file.Size > maxProofSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "screenshot exceeds 10MB"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read screenshot"})
		return
	}
	defer f.Close()

	proof, err := io.ReadAll(io.LimitReader(f, maxProofSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read screenshot"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	profile, err := h.signup.Submit(c.Request.Context(), c.Param("id"), proof, contentType)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "signup session not found"})
		case errors.Is(err, wizard.ErrIncomplete):
			c.JSON(http.StatusConflict, gin.H{"error": "complete all steps before submitting"})
		case errors.Is(err, service.ErrEmptyProof), errors.Is(err, wizard.ErrMissingProof):
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment screenshot required"})
		case errors.Is(err, service.ErrRemoteWrite):
			c.JSON(http.StatusBadGateway, gin.H{"error": "submission failed, please try again"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.respondWithSession(c, profile)
}

// ==================== Session Handlers ====================

// Login recovers a subscription by contact fields. Zero and many matches are
// one generic outcome so the endpoint cannot be used to enumerate accounts.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.resolver.ResolveByContact(c.Request.Context(), req.Email, req.Phone)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found, please check your email and phone number"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed, please try again"})
		return
	}

	h.respondWithSession(c, profile)
}

func (h *Handler) respondWithSession(c *gin.Context, profile *models.SubscriptionProfile) {
	token, err := MintSessionToken(h.jwtSecret, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{Token: token, Profile: profile})
}

// Dashboard returns the active session's profile, price summary and channel
// views. Entitlement is always the full set; approval only controls which
// entries are unlocked.
func (h *Handler) Dashboard(c *gin.Context) {
	profile, ok := h.restoreSession(c)
	if !ok {
		return
	}

	resp := gin.H{
		"profile":  profile,
		"channels": entitlement.ChannelViews(profile),
	}
	if quote, err := pricing.ComputeByName(profile.Plan, profile.DurationMonths, profile.IsStudent); err == nil {
		resp["quote"] = quote
	}

	c.JSON(http.StatusOK, resp)
}

// MyStatus re-checks the approval status against the record store.
func (h *Handler) MyStatus(c *gin.Context) {
	profile, ok := h.restoreSession(c)
	if !ok {
		return
	}

	// a failed poll falls back to the last known status
	status, err := h.resolver.RefreshStatus(c.Request.Context(), profile)
	if err != nil {
		log.Printf("[Handler] Status refresh failed for %s: %v", profile.ID, err)
	}

	c.JSON(http.StatusOK, models.StatusResponse{ApprovalStatus: status})
}

// Logout clears the cached session. The stored record is untouched.
func (h *Handler) Logout(c *gin.Context) {
	id := c.GetString("subscriptionID")
	if err := h.resolver.Logout(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) restoreSession(c *gin.Context) (*models.SubscriptionProfile, bool) {
	id := c.GetString("subscriptionID")

	profile, err := h.resolver.Restore(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return profile, true
}
