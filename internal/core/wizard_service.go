package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"incorpora-backend-go/internal/cache"
	"incorpora-backend-go/internal/models"
)

// The wizard state is persisted under two keys per user, mirroring the
// step number and the accumulated form snapshot. Both are cleared together
// on completion or cancellation.
const (
	wizardStepKeyPrefix = "wizard:step:"
	wizardFormKeyPrefix = "wizard:form:"

	// Abandoned sessions expire on their own; an expired draft simply
	// restarts the wizard at step one.
	wizardSessionTTL = 24 * time.Hour
)

// wizardService implements the WizardService state machine.
type wizardService struct {
	sessions cache.Cache
	storage  StorageService
	business BusinessService
}

// NewWizardService creates a new WizardService.
func NewWizardService(sessions cache.Cache, storage StorageService, business BusinessService) (WizardService, error) {
	if sessions == nil {
		return nil, errors.New("session cache is required for WizardService")
	}
	if storage == nil {
		return nil, errors.New("StorageService is required for WizardService")
	}
	if business == nil {
		return nil, errors.New("BusinessService is required for WizardService")
	}
	return &wizardService{sessions: sessions, storage: storage, business: business}, nil
}

func stepKey(userID string) string { return wizardStepKeyPrefix + userID }
func formKey(userID string) string { return wizardFormKeyPrefix + userID }

// persistedForm is the serialized form snapshot; it carries the draft
// business ID alongside the section data so recovery restores both.
type persistedForm struct {
	Form       models.WizardForm `json:"form"`
	BusinessID string            `json:"businessId,omitempty"`
}

// load restores the persisted session, or returns nil when no snapshot
// exists (or only half of one survives, which is treated as no snapshot).
func (s *wizardService) load(ctx context.Context, userID string) (*models.WizardSession, error) {
	stepVal, err := s.sessions.Get(ctx, stepKey(userID))
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read wizard step for user '%s': %w", userID, err)
	}
	formVal, err := s.sessions.Get(ctx, formKey(userID))
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read wizard form for user '%s': %w", userID, err)
	}

	step, err := strconv.Atoi(stepVal)
	if err != nil || step < models.WizardStepFirst || step > models.WizardStepLast {
		// Corrupted snapshot; start over rather than failing the request.
		log.Printf("WizardService: discarding corrupted step snapshot %q for user %s", stepVal, userID)
		return nil, nil
	}

	var persisted persistedForm
	if err := json.Unmarshal([]byte(formVal), &persisted); err != nil {
		log.Printf("WizardService: discarding corrupted form snapshot for user %s: %v", userID, err)
		return nil, nil
	}

	return &models.WizardSession{
		Step:       step,
		Form:       persisted.Form,
		BusinessID: persisted.BusinessID,
	}, nil
}

// save persists both session keys.
func (s *wizardService) save(ctx context.Context, userID string, session *models.WizardSession) error {
	session.UpdatedAt = time.Now().UTC()
	formJSON, err := json.Marshal(persistedForm{Form: session.Form, BusinessID: session.BusinessID})
	if err != nil {
		return fmt.Errorf("failed to serialize wizard form for user '%s': %w", userID, err)
	}
	if err := s.sessions.Set(ctx, stepKey(userID), strconv.Itoa(session.Step), wizardSessionTTL); err != nil {
		return fmt.Errorf("failed to persist wizard step for user '%s': %w", userID, err)
	}
	if err := s.sessions.Set(ctx, formKey(userID), string(formJSON), wizardSessionTTL); err != nil {
		return fmt.Errorf("failed to persist wizard form for user '%s': %w", userID, err)
	}
	return nil
}

func newSession() *models.WizardSession {
	return &models.WizardSession{Step: models.WizardStepFirst}
}

// Start returns the recovered session, or a fresh one when fresh is
// requested (the "register=true" signal) or no snapshot exists.
func (s *wizardService) Start(ctx context.Context, userID string, fresh bool) (*models.WizardSession, error) {
	if fresh {
		if err := s.Clear(ctx, userID); err != nil {
			return nil, err
		}
		session := newSession()
		if err := s.save(ctx, userID, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = newSession()
		if err := s.save(ctx, userID, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// Next validates the submitted step data, merges it into the accumulated
// form under the step's section, persists the snapshot and advances.
func (s *wizardService) Next(ctx context.Context, userID string, req models.WizardNextRequest) (*models.WizardSession, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = newSession()
	}

	if req.Step != session.Step {
		return nil, newValidationError("Submitted step %d does not match the current step %d", req.Step, session.Step)
	}
	if err := validateStep(req.Step, &req.Data); err != nil {
		return nil, err
	}

	switch req.Step {
	case models.WizardStepCountry:
		session.Form.Country = req.Data.Country
	case models.WizardStepPackage:
		session.Form.Package = req.Data.Package
	case models.WizardStepCompany:
		session.Form.Company = req.Data.Company
	case models.WizardStepOwners:
		// Owners added on the client arrive without IDs; assign them here
		// so edits and document cleanup can reference a stable owner.
		for i := range req.Data.Owners {
			if req.Data.Owners[i].ID == "" {
				req.Data.Owners[i].ID = uuid.NewString()
			}
		}
		session.Form.Owners = req.Data.Owners
	case models.WizardStepAddress:
		session.Form.Address = req.Data.Address
	}

	// Entering the review step is the point where the accumulated form
	// becomes a durable draft record.
	if req.Step == models.WizardStepAddress {
		business, err := s.business.SaveDraft(ctx, userID, &session.Form, session.BusinessID)
		if err != nil {
			return nil, fmt.Errorf("failed to persist registration draft for user '%s': %w", userID, err)
		}
		session.BusinessID = business.ID
	}

	if session.Step < models.WizardStepLast {
		session.Step++
	}
	if err := s.save(ctx, userID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Back decrements the step. At the first step it cancels the whole wizard
// instead of going below step one; the second return value reports that.
func (s *wizardService) Back(ctx context.Context, userID string) (*models.WizardSession, bool, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if session == nil || session.Step <= models.WizardStepFirst {
		if err := s.Cancel(ctx, userID); err != nil {
			return nil, false, err
		}
		return newSession(), true, nil
	}

	session.Step--
	if err := s.save(ctx, userID, session); err != nil {
		return nil, false, err
	}
	return session, false, nil
}

// Edit jumps directly to an earlier step, a non-linear transition used
// from the review step.
func (s *wizardService) Edit(ctx context.Context, userID string, step int) (*models.WizardSession, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, newValidationError("No registration in progress")
	}
	if step < models.WizardStepFirst || step >= session.Step {
		return nil, newValidationError("Step %d is not an earlier step of this registration", step)
	}

	session.Step = step
	if err := s.save(ctx, userID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Review returns the session along with the names of missing or invalid
// sections. The client must redirect back into the wizard when the list is
// not empty, instead of rendering partial review data.
func (s *wizardService) Review(ctx context.Context, userID string) (*models.WizardSession, []string, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		session = newSession()
		return session, []string{"country", "package", "company", "owners", "address"}, nil
	}
	return session, missingSections(&session.Form), nil
}

// Cancel aborts the registration: uploaded owner identification documents
// are deleted best effort (individual failures are logged, not fatal),
// then the persisted state is cleared.
func (s *wizardService) Cancel(ctx context.Context, userID string) error {
	session, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if session != nil {
		for _, owner := range session.Form.Owners {
			if owner.DocumentURL == "" {
				continue
			}
			if err := s.storage.Remove(ctx, owner.DocumentURL); err != nil {
				log.Printf("WizardService: failed to remove document %q of owner %q during cancellation: %v", owner.DocumentURL, owner.FullName, err)
			}
		}
	}
	return s.Clear(ctx, userID)
}

// Clear drops both persisted session keys.
func (s *wizardService) Clear(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, stepKey(userID)); err != nil {
		return fmt.Errorf("failed to clear wizard step for user '%s': %w", userID, err)
	}
	if err := s.sessions.Delete(ctx, formKey(userID)); err != nil {
		return fmt.Errorf("failed to clear wizard form for user '%s': %w", userID, err)
	}
	return nil
}
