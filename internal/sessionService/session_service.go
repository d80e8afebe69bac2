package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-site/internal/alarm"
	"auction-site/internal/auctionerrors"
	"auction-site/internal/metrics"
	model "auction-site/internal/models"
	"auction-site/internal/repository"
	"auction-site/utils"
)

// errUserGone reports a user deleted between password check and login
var errUserGone = errors.New("user deleted during login")

// SessionService manages login sessions and their expiry
type SessionService struct {
	store repository.Store
	clock alarm.Service
}

// NewSessionService creates a new SessionService instance
func NewSessionService(store repository.Store, clock alarm.Service) *SessionService {
	return &SessionService{
		store: store,
		clock: clock,
	}
}

// Login authenticates username on siteID and returns its session.
// Unknown users and wrong passwords yield (nil, nil).
func (s *SessionService) Login(ctx context.Context, siteID int64, username, password string) (*model.Session, error) {
	if err := ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	var (
		user  model.User
		found bool
	)
	err := s.store.View(ctx, siteID, func(tx repository.Tx) error {
		u, err := tx.GetUser(username)
		if errors.Is(err, auctionerrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		user, found = u, true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to look up user %s: %w", username, auctionerrors.FromStore(err, "site"))
	}

	if !found || !CheckPassword(user.PasswordHash, password) {
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		return nil, nil
	}

	var (
		session model.Session
		result  string
	)
	err = s.store.Update(ctx, siteID, func(tx repository.Tx) error {
		if _, err := tx.GetUserByID(user.ID); err != nil {
			if errors.Is(err, auctionerrors.ErrNotFound) {
				return errUserGone
			}
			return err
		}
		now := s.clock.Now(tx.Site().Timezone)

		current, err := tx.GetSessionByUser(user.ID)
		switch {
		case err == nil && !current.Expired(now):
			result = "renewed"
			session = current
			return Extend(tx, &session, now)
		case err == nil:
			result = "replaced"
			if err := tx.DeleteSession(current.Token); err != nil {
				return err
			}
		case !errors.Is(err, auctionerrors.ErrNotFound):
			return err
		default:
			result = "created"
		}

		session = model.Session{
			Token:      utils.GenerateToken(),
			UserID:     user.ID,
			ValidUntil: now.Add(tx.Site().SessionExpiration()),
		}
		return tx.CreateSession(&session)
	})
	if err != nil {
		if errors.Is(err, errUserGone) {
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
			return nil, nil
		}
		return nil, fmt.Errorf("service: failed to log in %s: %w", username, auctionerrors.FromStore(err, "session"))
	}

	metrics.LoginsTotal.WithLabelValues(result).Inc()
	utils.Info("user logged in", map[string]any{
		"site_id": siteID,
		"user_id": user.ID,
		"result":  result,
	})
	return &session, nil
}

// Logout ends the session identified by token
func (s *SessionService) Logout(ctx context.Context, siteID int64, token string) error {
	err := s.store.Update(ctx, siteID, func(tx repository.Tx) error {
		return tx.DeleteSession(token)
	})
	if err != nil {
		return fmt.Errorf("service: failed to log out: %w", auctionerrors.FromStore(err, "session"))
	}
	return nil
}

// ValidUntil returns the expiry instant of the session identified by token
func (s *SessionService) ValidUntil(ctx context.Context, siteID int64, token string) (time.Time, error) {
	var validUntil time.Time
	err := s.store.View(ctx, siteID, func(tx repository.Tx) error {
		session, err := tx.GetSession(token)
		if err != nil {
			return err
		}
		validUntil = session.ValidUntil.In(alarm.Zone(tx.Site().Timezone))
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("service: failed to read session: %w", auctionerrors.FromStore(err, "session"))
	}
	return validUntil, nil
}

// ExpirySweep deletes every session of siteID that is expired at now and
// returns how many were removed
func (s *SessionService) ExpirySweep(ctx context.Context, siteID int64, now time.Time) (int, error) {
	var removed int
	err := s.store.Update(ctx, siteID, func(tx repository.Tx) error {
		var err error
		removed, err = tx.DeleteExpiredSessions(now)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("service: failed to sweep sessions of site %d: %w", siteID, auctionerrors.FromStore(err, "site"))
	}

	if removed > 0 {
		metrics.SessionsSwept.Add(float64(removed))
		utils.Debug("expired sessions removed", map[string]any{
			"site_id": siteID,
			"removed": removed,
		})
	}
	return removed, nil
}

// Validate loads the session identified by token inside tx and checks that
// it is still live at now
func Validate(tx repository.Tx, token string, now time.Time) (model.Session, error) {
	session, err := tx.GetSession(token)
	if errors.Is(err, auctionerrors.ErrNotFound) {
		return model.Session{}, fmt.Errorf("service: %w - session not found", auctionerrors.ErrInvalidState)
	}
	if err != nil {
		return model.Session{}, err
	}
	if session.Expired(now) {
		return model.Session{}, fmt.Errorf("service: %w - session expired", auctionerrors.ErrInvalidState)
	}
	return session, nil
}

// Extend pushes the session's expiry to now plus the site's session
// lifetime. Expiry never moves backwards.
func Extend(tx repository.Tx, session *model.Session, now time.Time) error {
	validUntil := now.Add(tx.Site().SessionExpiration())
	if validUntil.Before(session.ValidUntil) {
		return nil
	}
	session.ValidUntil = validUntil
	return tx.UpdateSession(session)
}
