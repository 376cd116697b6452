package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/models"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/wizard"
)

// ErrRemoteWrite marks a failed upload or insert during submission. The
// wizard session survives the failure so the user can retry without
// re-entering earlier steps.
var ErrRemoteWrite = errors.New("submission write failed")

// ErrEmptyProof is returned when the submit request carries no screenshot.
var ErrEmptyProof = errors.New("payment screenshot required")

// ProofUploader stores a payment-proof image and returns its public reference.
type ProofUploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// RecordInserter persists a finished subscription row.
type RecordInserter interface {
	Insert(ctx context.Context, p *models.SubscriptionProfile) error
}

// SessionCache stores the active-session profile snapshot.
type SessionCache interface {
	Save(ctx context.Context, p *models.SubscriptionProfile) error
}

// SignupService runs the submission pipeline: upload the proof blob, complete
// the wizard into a profile snapshot, insert the record, cache the session.
// The upload strictly precedes the insert so a stored row always references
// an existing proof.
type SignupService struct {
	wizards  *wizard.Store
	uploader ProofUploader
	records  RecordInserter
	cache    SessionCache
}

func NewSignupService(wizards *wizard.Store, uploader ProofUploader, records RecordInserter, cache SessionCache) *SignupService {
	return &SignupService{
		wizards:  wizards,
		uploader: uploader,
		records:  records,
		cache:    cache,
	}
}

// Wizards exposes the wizard store for the HTTP layer.
func (s *SignupService) Wizards() *wizard.Store {
	return s.wizards
}

// Submit finishes the wizard session. On any remote-write failure the wizard
// session is preserved at the payment step; on success it is discarded and
// the new profile becomes the active session.
func (s *SignupService) Submit(ctx context.Context, wizardID string, proof []byte, contentType string) (*models.SubscriptionProfile, error) {
	if len(proof) == 0 {
		return nil, ErrEmptyProof
	}

	// the wizard must be completable before we spend an upload on it
	if err := s.wizards.Update(wizardID, func(m *wizard.Machine) error {
		if m.Step() != wizard.StepPayment {
			return wizard.ErrIncomplete
		}
		return nil
	}); err != nil {
		return nil, err
	}

	proofURL, err := s.uploader.Upload(ctx, proof, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: upload proof: %v", ErrRemoteWrite, err)
	}

	var profile *models.SubscriptionProfile
	if err := s.wizards.Update(wizardID, func(m *wizard.Machine) error {
		p, err := m.Complete(proofURL, time.Now())
		if err != nil {
			return err
		}
		profile = p
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.records.Insert(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: insert record: %v", ErrRemoteWrite, err)
	}

	if err := s.cache.Save(ctx, profile); err != nil {
		// record is persisted; a cold cache only costs the user a login
		log.Printf("[SignupService] Failed to cache session %s: %v", profile.ID, err)
	}

	s.wizards.Delete(wizardID)
	log.Printf("[SignupService] Submission complete (subscription: %s, plan: %s)", profile.ID, profile.Plan)
	return profile, nil
}
