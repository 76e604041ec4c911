package auth

import (
	"context"
	"fmt"
	"time"

	"farmer-portal/internal/models"
	"farmer-portal/internal/util"

	"go.uber.org/zap"
)

// FarmerLookup loads the farmer record a token is issued for.
type FarmerLookup interface {
	GetFarmerByID(ctx context.Context, id string) (*models.Farmer, error)
}

// SessionStore keeps the latest token issued per farmer.
type SessionStore interface {
	StoreSession(ctx context.Context, subject, token string, ttl time.Duration) error
}

// Renewer re-issues a farmer's session token from the current farmer record,
// so profile claims follow edits without the farmer logging in again.
type Renewer struct {
	tokens   *TokenService
	farmers  FarmerLookup
	sessions SessionStore
	logger   *zap.Logger
}

// NewRenewer creates a session renewer
func NewRenewer(tokens *TokenService, farmers FarmerLookup, sessions SessionStore) *Renewer {
	return &Renewer{
		tokens:   tokens,
		farmers:  farmers,
		sessions: sessions,
		logger:   util.GetLogger(),
	}
}

// Renew issues and records a fresh token for farmerID.
func (r *Renewer) Renew(ctx context.Context, farmerID string) (string, error) {
	ctx, span := util.StartSpan(ctx, "Renewer.Renew")
	defer span.End()

	farmer, err := r.farmers.GetFarmerByID(ctx, farmerID)
	if err != nil {
		util.RecordError(span, err)
		return "", fmt.Errorf("failed to load farmer: %w", err)
	}

	token, err := r.tokens.Issue(Identity{
		Subject: farmer.ID,
		Role:    models.RoleFarmer,
		Name:    farmer.Name,
		Image:   farmer.Image,
	})
	if err != nil {
		util.RecordError(span, err)
		return "", err
	}

	if err := r.sessions.StoreSession(ctx, farmer.ID, token, r.tokens.TTL()); err != nil {
		util.RecordError(span, err)
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	r.logger.Info("Session renewed", zap.String("farmer_id", farmer.ID))
	return token, nil
}
