// Package profile implements the farmer profile edit session: per-field
// edit flags, draft values and saves against the farmer data service.
package profile

import (
	"context"
	"errors"
	"sync"

	"farmer-portal/internal/models"
	"farmer-portal/internal/service"
	"farmer-portal/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	ErrUnknownField  = errors.New("unknown profile field")
	ErrUnknownRegion = errors.New("region is not in the allowed list")
)

// Notification messages
const (
	MsgSaved        = "Details updated successfully"
	MsgSaveFailed   = "Failed to update details"
	MsgUploadFailed = "Error uploading profile picture"
)

// Updater persists a partial farmer update.
type Updater interface {
	UpdateFarmerDetails(ctx context.Context, farmerID string, details models.FarmerDetails) service.MutationResult
}

// Refresher renews the farmer's session after a successful save and
// returns the new session token.
type Refresher interface {
	Renew(ctx context.Context, farmerID string) (string, error)
}

// SaveOutcome reports what Save did.
type SaveOutcome int

const (
	// SaveSkipped means no remote call was made.
	SaveSkipped SaveOutcome = iota
	SaveSucceeded
	SaveFailed
)

func (o SaveOutcome) String() string {
	switch o {
	case SaveSucceeded:
		return "succeeded"
	case SaveFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// UploadResult is the payload the image uploader hands back.
type UploadResult struct {
	Info struct {
		SecureURL string `json:"secure_url"`
	} `json:"info"`
}

// Options tune session behavior.
type Options struct {
	// RevertOnCancel resets a field's draft to its last saved value on cancel.
	RevertOnCancel bool
}

// State is the externally observable state of a session.
type State struct {
	FarmerID string                       `json:"farmerId,omitempty"`
	Draft    models.FarmerProfile         `json:"draft"`
	Saved    models.FarmerProfile         `json:"saved"`
	Editing  map[models.ProfileField]bool `json:"editing"`
	Saving   []models.ProfileField        `json:"saving"`
	Token    string                       `json:"token,omitempty"`
}

// Session is the edit state of one farmer profile. It is safe for
// concurrent use; remote calls run without the lock held.
type Session struct {
	mu       sync.Mutex
	farmerID string
	saved    models.FarmerProfile
	draft    models.FarmerProfile
	editing  map[models.ProfileField]bool
	saving   map[models.ProfileField]bool
	token    string
	notes    *Queue

	updater   Updater
	refresher Refresher
	opts      Options
	logger    *zap.Logger
}

// NewSession starts a session for profile. A nil profile yields a session
// without identity whose saves are no-ops.
func NewSession(profile *models.FarmerProfile, updater Updater, refresher Refresher, opts Options) *Session {
	s := &Session{
		editing:   make(map[models.ProfileField]bool, len(models.ProfileFields)),
		saving:    make(map[models.ProfileField]bool),
		notes:     &Queue{},
		updater:   updater,
		refresher: refresher,
		opts:      opts,
		logger:    util.GetLogger(),
	}
	if profile != nil {
		s.farmerID = profile.ID
		s.saved = *profile
		s.draft = *profile
	}
	return s
}

// Payload builds the partial update for field from the draft. Only field
// itself is ever included.
func Payload(field models.ProfileField, draft models.FarmerProfile) models.FarmerDetails {
	return models.FarmerDetails{field: draft.Value(field)}
}

// BeginEdit switches field to edit mode.
func (s *Session) BeginEdit(field models.ProfileField) error {
	if !field.Valid() {
		return ErrUnknownField
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing[field] = true
	return nil
}

// ChangeValue sets the draft value of field. Regions must come from the
// allowed list; nothing else is checked.
func (s *Session) ChangeValue(field models.ProfileField, value string) error {
	if !field.Valid() {
		return ErrUnknownField
	}
	if field == models.FieldRegion && !models.IsRegion(value) {
		return ErrUnknownRegion
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = s.draft.With(field, value)
	return nil
}

// Cancel switches field back to view mode.
func (s *Session) Cancel(field models.ProfileField) error {
	if !field.Valid() {
		return ErrUnknownField
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing[field] = false
	if s.opts.RevertOnCancel {
		s.draft = s.draft.With(field, s.saved.Value(field))
	}
	return nil
}

// Save persists the draft value of field. It is a no-op without a farmer
// identity or while a save of the same field is in flight.
func (s *Session) Save(ctx context.Context, field models.ProfileField) (SaveOutcome, error) {
	if !field.Valid() {
		return SaveSkipped, ErrUnknownField
	}

	s.mu.Lock()
	if s.farmerID == "" || s.saving[field] {
		s.mu.Unlock()
		return SaveSkipped, nil
	}
	s.saving[field] = true
	farmerID := s.farmerID
	payload := Payload(field, s.draft)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.saving, field)
		s.mu.Unlock()
	}()

	ctx, span := util.StartSpan(ctx, "Session.Save",
		attribute.String("farmer_id", farmerID), attribute.String("field", string(field)))
	defer span.End()

	res := s.updater.UpdateFarmerDetails(ctx, farmerID, payload)
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = MsgSaveFailed
		}
		s.notes.Error(msg)
		util.ProfileSavesTotal.WithLabelValues(string(field), SaveFailed.String()).Inc()
		s.logger.Warn("Profile field save failed",
			zap.String("farmer_id", farmerID),
			zap.String("field", string(field)),
			zap.String("error", msg))
		return SaveFailed, nil
	}

	s.notes.Success(MsgSaved)
	util.ProfileSavesTotal.WithLabelValues(string(field), SaveSucceeded.String()).Inc()

	token, err := s.refresher.Renew(ctx, farmerID)
	if err != nil {
		util.RecordError(span, err)
		s.logger.Warn("Session renewal after save failed",
			zap.String("farmer_id", farmerID),
			zap.Error(err))
	}

	s.mu.Lock()
	s.saved = s.saved.With(field, payload[field])
	s.editing[field] = false
	if err == nil {
		s.token = token
	}
	s.mu.Unlock()

	return SaveSucceeded, nil
}

// OnImageUploaded takes the uploader's result, stages the new image and
// saves it right away.
func (s *Session) OnImageUploaded(ctx context.Context, result UploadResult) (SaveOutcome, error) {
	url := result.Info.SecureURL
	if url == "" {
		s.notes.Error(MsgUploadFailed)
		return SaveSkipped, nil
	}

	s.mu.Lock()
	s.draft = s.draft.With(models.FieldImage, url)
	s.editing[models.FieldImage] = true
	s.mu.Unlock()

	return s.Save(ctx, models.FieldImage)
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	editing := make(map[models.ProfileField]bool, len(models.ProfileFields))
	saving := make([]models.ProfileField, 0, len(s.saving))
	for _, f := range models.ProfileFields {
		editing[f] = s.editing[f]
		if s.saving[f] {
			saving = append(saving, f)
		}
	}

	return State{
		FarmerID: s.farmerID,
		Draft:    s.draft,
		Saved:    s.saved,
		Editing:  editing,
		Saving:   saving,
		Token:    s.token,
	}
}

// IsEditing reports whether field is in edit mode.
func (s *Session) IsEditing(field models.ProfileField) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing[field]
}

// IsSaving reports whether a save of field is in flight.
func (s *Session) IsSaving(field models.ProfileField) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving[field]
}

// Notifications drains the pending notifications.
func (s *Session) Notifications() []Notification {
	return s.notes.Drain()
}
