// Package account manages sites and users and keeps every loaded site's
// session sweeper running.
package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"auction-site/internal/alarm"
	"auction-site/internal/auctionerrors"
	"auction-site/internal/events"
	model "auction-site/internal/models"
	"auction-site/internal/repository"
	session "auction-site/internal/sessionService"
	"auction-site/utils"

	"github.com/shopspring/decimal"
)

// Site limits
const (
	MinSiteNameLength = 1
	MaxSiteNameLength = 128
	MinTimezone       = -12
	MaxTimezone       = 12

	// DefaultSweepInterval is how often expired sessions are purged
	DefaultSweepInterval = 5 * time.Minute
)

// Options tunes a Registry. Zero values pick defaults.
type Options struct {
	SweepInterval time.Duration
	BcryptCost    int
	Publisher     events.Publisher
}

// Registry is the administrative surface of the auction site
type Registry struct {
	store     repository.Store
	clock     alarm.Service
	sessions  *session.SessionService
	publisher events.Publisher

	sweepInterval time.Duration
	bcryptCost    int

	mu     sync.Mutex
	alarms map[int64]func() // site ID -> cancel of its sweeper
}

// NewRegistry creates a new Registry instance
func NewRegistry(store repository.Store, clock alarm.Service, sessions *session.SessionService, opts Options) *Registry {
	if opts.SweepInterval <= 0 || opts.SweepInterval > DefaultSweepInterval {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.Publisher == nil {
		opts.Publisher = events.Nop{}
	}
	return &Registry{
		store:         store,
		clock:         clock,
		sessions:      sessions,
		publisher:     opts.Publisher,
		sweepInterval: opts.SweepInterval,
		bcryptCost:    opts.BcryptCost,
		alarms:        make(map[int64]func()),
	}
}

// CreateSite registers a new site
func (r *Registry) CreateSite(ctx context.Context, name string, timezone, sessionExpirationSeconds int,
	minimumBidIncrement decimal.Decimal) (model.Site, error) {
	if n := utf8.RuneCountInString(name); n < MinSiteNameLength || n > MaxSiteNameLength {
		return model.Site{}, fmt.Errorf("service: %w - site name must be %d to %d characters",
			auctionerrors.ErrInvalidArgument, MinSiteNameLength, MaxSiteNameLength)
	}
	if timezone < MinTimezone || timezone > MaxTimezone {
		return model.Site{}, fmt.Errorf("service: %w - timezone %d not in [%d, %d]",
			auctionerrors.ErrOutOfRange, timezone, MinTimezone, MaxTimezone)
	}
	if sessionExpirationSeconds <= 0 {
		return model.Site{}, fmt.Errorf("service: %w - session expiration must be positive", auctionerrors.ErrOutOfRange)
	}
	if !minimumBidIncrement.IsPositive() {
		return model.Site{}, fmt.Errorf("service: %w - minimum bid increment must be positive", auctionerrors.ErrOutOfRange)
	}

	site := model.Site{
		Name:                     name,
		Timezone:                 timezone,
		SessionExpirationSeconds: sessionExpirationSeconds,
		MinimumBidIncrement:      minimumBidIncrement,
	}
	if err := r.store.CreateSite(ctx, &site); err != nil {
		return model.Site{}, fmt.Errorf("service: failed to create site %s: %w", name, auctionerrors.FromStore(err, "site name "+name))
	}

	utils.Info("site created", map[string]any{
		"site_id": site.ID,
		"name":    name,
	})
	return site, nil
}

// LoadSite returns the site called name and starts its session sweeper if
// it is not running yet
func (r *Registry) LoadSite(ctx context.Context, name string) (model.Site, error) {
	site, err := r.store.GetSiteByName(ctx, name)
	if errors.Is(err, auctionerrors.ErrNotFound) {
		return model.Site{}, fmt.Errorf("service: %w - site %s", auctionerrors.ErrInexistentName, name)
	}
	if err != nil {
		return model.Site{}, fmt.Errorf("service: failed to load site %s: %w", name, auctionerrors.FromStore(err, "site"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alarms[site.ID]; !ok {
		r.alarms[site.ID] = r.clock.ScheduleRecurring(r.sweepInterval, r.sweeper(site))
	}
	return site, nil
}

func (r *Registry) sweeper(site model.Site) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.sweepInterval)
		defer cancel()

		now := r.clock.Now(site.Timezone)
		if _, err := r.sessions.ExpirySweep(ctx, site.ID, now); err != nil {
			if errors.Is(err, auctionerrors.ErrInvalidState) {
				// site deleted behind our back
				r.stopSweeper(site.ID)
				return
			}
			utils.Error("session sweep failed", map[string]any{
				"site_id": site.ID,
				"error":   err.Error(),
			})
		}
	}
}

func (r *Registry) stopSweeper(siteID int64) {
	r.mu.Lock()
	cancel, ok := r.alarms[siteID]
	delete(r.alarms, siteID)
	r.mu.Unlock()

	if ok {
		cancel()
	}
}

// Close stops every sweeper
func (r *Registry) Close() {
	r.mu.Lock()
	alarms := r.alarms
	r.alarms = make(map[int64]func())
	r.mu.Unlock()

	for _, cancel := range alarms {
		cancel()
	}
}

// ListSites returns the name and timezone of every site
func (r *Registry) ListSites(ctx context.Context) ([]model.SiteInfo, error) {
	sites, err := r.store.ListSites(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list sites: %w", auctionerrors.FromStore(err, "sites"))
	}

	infos := make([]model.SiteInfo, 0, len(sites))
	for _, s := range sites {
		infos = append(infos, model.SiteInfo{Name: s.Name, Timezone: s.Timezone})
	}
	return infos, nil
}

// DeleteSite removes siteID with all its sessions, auctions and users.
// Deleting a site that is already gone succeeds.
func (r *Registry) DeleteSite(ctx context.Context, siteID int64) error {
	var auctionIDs []int64
	err := r.store.Update(ctx, siteID, func(tx repository.Tx) error {
		auctionIDs = auctionIDs[:0]

		sessions, err := tx.ListSessions()
		if err != nil {
			return err
		}
		for _, s := range sessions {
			if err := ignoreMissing(tx.DeleteSession(s.Token)); err != nil {
				return err
			}
		}

		auctions, err := tx.ListAuctions(repository.AuctionFilter{})
		if err != nil {
			return err
		}
		for _, a := range auctions {
			if err := ignoreMissing(tx.DeleteAuction(a.ID)); err != nil {
				return err
			}
			auctionIDs = append(auctionIDs, a.ID)
		}

		users, err := tx.ListUsers()
		if err != nil {
			return err
		}
		for _, u := range users {
			if err := ignoreMissing(tx.DeleteUser(u.ID)); err != nil {
				return err
			}
		}

		return tx.DeleteSite()
	})
	r.stopSweeper(siteID)

	if errors.Is(err, auctionerrors.ErrNotFound) || errors.Is(err, auctionerrors.ErrTargetDeleted) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("service: failed to delete site %d: %w", siteID, auctionerrors.FromStore(err, "site"))
	}

	for _, id := range auctionIDs {
		r.publish(ctx, events.Subject(siteID, events.KindDeleted), events.AuctionDeleted{SiteID: siteID, AuctionID: id})
	}
	utils.Info("site deleted", map[string]any{"site_id": siteID})
	return nil
}

// SiteNow returns the current time in the site's timezone
func (r *Registry) SiteNow(ctx context.Context, siteID int64) (time.Time, error) {
	var now time.Time
	err := r.store.View(ctx, siteID, func(tx repository.Tx) error {
		now = r.clock.Now(tx.Site().Timezone)
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("service: failed to read site time: %w", auctionerrors.FromStore(err, "site"))
	}
	return now, nil
}

func (r *Registry) publish(ctx context.Context, subject string, v any) {
	if err := r.publisher.Publish(ctx, subject, v); err != nil {
		utils.Warn("failed to publish event", map[string]any{
			"subject": subject,
			"error":   err.Error(),
		})
	}
}

// ignoreMissing treats rows that vanished during a bulk delete as deleted
func ignoreMissing(err error) error {
	if errors.Is(err, auctionerrors.ErrNotFound) {
		return nil
	}
	return err
}
