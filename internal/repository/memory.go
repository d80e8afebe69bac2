package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"auction-site/internal/auctionerrors"
	model "auction-site/internal/models"
)

var errReadOnly = errors.New("write in read-only transaction")

// partition holds one site's records behind its own lock, so transactions on
// different sites never contend
type partition struct {
	mu      sync.RWMutex
	deleted bool
	site    model.Site

	users     map[int64]model.User
	usernames map[string]int64 // username -> user ID
	sessions  map[string]model.Session
	userToken map[int64]string // user ID -> session token
	auctions  map[int64]model.Auction
}

func newPartition(site model.Site) *partition {
	return &partition{
		site:      site,
		users:     make(map[int64]model.User),
		usernames: make(map[string]int64),
		sessions:  make(map[string]model.Session),
		userToken: make(map[int64]string),
		auctions:  make(map[int64]model.Auction),
	}
}

// MemoryRepo is a concurrency-safe in-memory implementation of Store.
// Update holds the site's partition lock for the whole transaction and keeps
// an undo log, so a failed transaction leaves no partial writes.
type MemoryRepo struct {
	mu    sync.RWMutex // guards sites and names; never held while waiting on a partition
	sites map[int64]*partition
	names map[string]int64 // site name -> site ID

	siteSeq    atomic.Int64
	userSeq    atomic.Int64
	auctionSeq atomic.Int64
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		sites: make(map[int64]*partition),
		names: make(map[string]int64),
	}
}

// CreateSite registers a new site and assigns its ID
func (r *MemoryRepo) CreateSite(ctx context.Context, site *model.Site) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("create site: %w: %w", auctionerrors.ErrStoreUnavailable, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[site.Name]; ok {
		return fmt.Errorf("create site %s: %w", site.Name, auctionerrors.ErrUniquenessConflict)
	}

	site.ID = r.siteSeq.Add(1)
	r.sites[site.ID] = newPartition(*site)
	r.names[site.Name] = site.ID
	return nil
}

// GetSiteByName returns the site registered under name
func (r *MemoryRepo) GetSiteByName(ctx context.Context, name string) (model.Site, error) {
	if err := ctx.Err(); err != nil {
		return model.Site{}, fmt.Errorf("get site: %w: %w", auctionerrors.ErrStoreUnavailable, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.names[name]
	if !ok {
		return model.Site{}, fmt.Errorf("get site %s: %w", name, auctionerrors.ErrNotFound)
	}
	return r.sites[id].site, nil
}

// ListSites returns all sites ordered by ID
func (r *MemoryRepo) ListSites(ctx context.Context) ([]model.Site, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list sites: %w: %w", auctionerrors.ErrStoreUnavailable, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sites := make([]model.Site, 0, len(r.sites))
	for _, p := range r.sites {
		sites = append(sites, p.site)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].ID < sites[j].ID })
	return sites, nil
}

// Update runs fn while holding the site's write lock
func (r *MemoryRepo) Update(ctx context.Context, siteID int64, fn func(tx Tx) error) (err error) {
	p, err := r.partition(ctx, siteID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.deleted {
		return fmt.Errorf("site %d: %w", siteID, auctionerrors.ErrNotFound)
	}

	tx := &memTx{repo: r, p: p, writable: true}
	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if tx.siteDeleted {
		r.mu.Lock()
		delete(r.sites, p.site.ID)
		delete(r.names, p.site.Name)
		r.mu.Unlock()
	}
	committed = true
	return nil
}

// View runs fn while holding the site's read lock
func (r *MemoryRepo) View(ctx context.Context, siteID int64, fn func(tx Tx) error) error {
	p, err := r.partition(ctx, siteID)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.deleted {
		return fmt.Errorf("site %d: %w", siteID, auctionerrors.ErrNotFound)
	}
	return fn(&memTx{repo: r, p: p})
}

func (r *MemoryRepo) partition(ctx context.Context, siteID int64) (*partition, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("site %d: %w: %w", siteID, auctionerrors.ErrStoreUnavailable, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.sites[siteID]
	if !ok {
		return nil, fmt.Errorf("site %d: %w", siteID, auctionerrors.ErrNotFound)
	}
	return p, nil
}

// memTx implements Tx over a locked partition
type memTx struct {
	repo        *MemoryRepo
	p           *partition
	writable    bool
	siteDeleted bool
	undo        []func()
}

func (tx *memTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (tx *memTx) onRollback(f func()) {
	tx.undo = append(tx.undo, f)
}

func (tx *memTx) checkWritable(op string) error {
	if !tx.writable {
		return fmt.Errorf("%s: %w", op, errReadOnly)
	}
	return nil
}

func (tx *memTx) Site() model.Site {
	return tx.p.site
}

func (tx *memTx) DeleteSite() error {
	if err := tx.checkWritable("delete site"); err != nil {
		return err
	}
	p := tx.p
	if len(p.users) > 0 || len(p.sessions) > 0 || len(p.auctions) > 0 {
		return fmt.Errorf("delete site %d: site still has records: %w", p.site.ID, auctionerrors.ErrInvalidState)
	}

	p.deleted = true
	tx.siteDeleted = true
	tx.onRollback(func() {
		p.deleted = false
		tx.siteDeleted = false
	})
	return nil
}

func (tx *memTx) GetUser(username string) (model.User, error) {
	id, ok := tx.p.usernames[username]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", username, auctionerrors.ErrNotFound)
	}
	return tx.p.users[id], nil
}

func (tx *memTx) GetUserByID(id int64) (model.User, error) {
	user, ok := tx.p.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("get user %d: %w", id, auctionerrors.ErrNotFound)
	}
	return user, nil
}

func (tx *memTx) ListUsers() ([]model.User, error) {
	users := make([]model.User, 0, len(tx.p.users))
	for _, u := range tx.p.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (tx *memTx) CreateUser(user *model.User) error {
	if err := tx.checkWritable("create user"); err != nil {
		return err
	}
	p := tx.p
	if _, ok := p.usernames[user.Username]; ok {
		return fmt.Errorf("create user %s: %w", user.Username, auctionerrors.ErrUniquenessConflict)
	}

	user.ID = tx.repo.userSeq.Add(1)
	user.SiteID = p.site.ID
	p.users[user.ID] = *user
	p.usernames[user.Username] = user.ID

	id, name := user.ID, user.Username
	tx.onRollback(func() {
		delete(p.users, id)
		delete(p.usernames, name)
	})
	return nil
}

func (tx *memTx) DeleteUser(id int64) error {
	if err := tx.checkWritable("delete user"); err != nil {
		return err
	}
	p := tx.p
	user, ok := p.users[id]
	if !ok {
		return fmt.Errorf("delete user %d: %w", id, auctionerrors.ErrNotFound)
	}

	delete(p.users, id)
	delete(p.usernames, user.Username)
	tx.onRollback(func() {
		p.users[id] = user
		p.usernames[user.Username] = id
	})
	return nil
}

func (tx *memTx) GetSession(token string) (model.Session, error) {
	session, ok := tx.p.sessions[token]
	if !ok {
		return model.Session{}, fmt.Errorf("get session: %w", auctionerrors.ErrNotFound)
	}
	return session, nil
}

func (tx *memTx) GetSessionByUser(userID int64) (model.Session, error) {
	token, ok := tx.p.userToken[userID]
	if !ok {
		return model.Session{}, fmt.Errorf("get session of user %d: %w", userID, auctionerrors.ErrNotFound)
	}
	return tx.p.sessions[token], nil
}

func (tx *memTx) ListSessions() ([]model.Session, error) {
	sessions := make([]model.Session, 0, len(tx.p.sessions))
	for _, s := range tx.p.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].UserID < sessions[j].UserID })
	return sessions, nil
}

func (tx *memTx) CreateSession(session *model.Session) error {
	if err := tx.checkWritable("create session"); err != nil {
		return err
	}
	p := tx.p
	if _, ok := p.sessions[session.Token]; ok {
		return fmt.Errorf("create session: token %w", auctionerrors.ErrUniquenessConflict)
	}
	if _, ok := p.userToken[session.UserID]; ok {
		return fmt.Errorf("create session for user %d: %w", session.UserID, auctionerrors.ErrUniquenessConflict)
	}

	session.SiteID = p.site.ID
	session.Version = 1
	p.sessions[session.Token] = *session
	p.userToken[session.UserID] = session.Token

	token, userID := session.Token, session.UserID
	tx.onRollback(func() {
		delete(p.sessions, token)
		delete(p.userToken, userID)
	})
	return nil
}

func (tx *memTx) UpdateSession(session *model.Session) error {
	if err := tx.checkWritable("update session"); err != nil {
		return err
	}
	p := tx.p
	stored, ok := p.sessions[session.Token]
	if !ok {
		return fmt.Errorf("update session: %w", auctionerrors.ErrTargetDeleted)
	}
	if stored.Version != session.Version {
		return fmt.Errorf("update session: version %d, stored %d: %w",
			session.Version, stored.Version, auctionerrors.ErrConcurrencyConflict)
	}

	session.Version++
	session.SiteID = stored.SiteID
	session.UserID = stored.UserID
	p.sessions[session.Token] = *session
	tx.onRollback(func() {
		p.sessions[stored.Token] = stored
	})
	return nil
}

func (tx *memTx) DeleteSession(token string) error {
	if err := tx.checkWritable("delete session"); err != nil {
		return err
	}
	p := tx.p
	session, ok := p.sessions[token]
	if !ok {
		return fmt.Errorf("delete session: %w", auctionerrors.ErrNotFound)
	}

	delete(p.sessions, token)
	delete(p.userToken, session.UserID)
	tx.onRollback(func() {
		p.sessions[token] = session
		p.userToken[session.UserID] = token
	})
	return nil
}

func (tx *memTx) DeleteExpiredSessions(now time.Time) (int, error) {
	if err := tx.checkWritable("delete expired sessions"); err != nil {
		return 0, err
	}

	removed := 0
	for token, session := range tx.p.sessions {
		if !session.Expired(now) {
			continue
		}
		if err := tx.DeleteSession(token); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (tx *memTx) GetAuction(id int64) (model.Auction, error) {
	auction, ok := tx.p.auctions[id]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %d: %w", id, auctionerrors.ErrNotFound)
	}
	return cloneAuction(auction), nil
}

func (tx *memTx) ListAuctions(filter AuctionFilter) ([]model.Auction, error) {
	auctions := make([]model.Auction, 0)
	for _, a := range tx.p.auctions {
		if filter.Matches(a) {
			auctions = append(auctions, cloneAuction(a))
		}
	}
	sort.Slice(auctions, func(i, j int) bool { return auctions[i].ID < auctions[j].ID })
	return auctions, nil
}

func (tx *memTx) CreateAuction(auction *model.Auction) error {
	if err := tx.checkWritable("create auction"); err != nil {
		return err
	}
	p := tx.p

	auction.ID = tx.repo.auctionSeq.Add(1)
	auction.SiteID = p.site.ID
	auction.Version = 1
	p.auctions[auction.ID] = cloneAuction(*auction)

	id := auction.ID
	tx.onRollback(func() {
		delete(p.auctions, id)
	})
	return nil
}

func (tx *memTx) UpdateAuction(auction *model.Auction) error {
	if err := tx.checkWritable("update auction"); err != nil {
		return err
	}
	p := tx.p
	stored, ok := p.auctions[auction.ID]
	if !ok {
		return fmt.Errorf("update auction %d: %w", auction.ID, auctionerrors.ErrTargetDeleted)
	}
	if stored.Version != auction.Version {
		return fmt.Errorf("update auction %d: version %d, stored %d: %w",
			auction.ID, auction.Version, stored.Version, auctionerrors.ErrConcurrencyConflict)
	}

	auction.Version++
	auction.SiteID = stored.SiteID
	p.auctions[auction.ID] = cloneAuction(*auction)
	tx.onRollback(func() {
		p.auctions[stored.ID] = stored
	})
	return nil
}

func (tx *memTx) DeleteAuction(id int64) error {
	if err := tx.checkWritable("delete auction"); err != nil {
		return err
	}
	p := tx.p
	auction, ok := p.auctions[id]
	if !ok {
		return fmt.Errorf("delete auction %d: %w", id, auctionerrors.ErrNotFound)
	}

	delete(p.auctions, id)
	tx.onRollback(func() {
		p.auctions[id] = auction
	})
	return nil
}

func cloneAuction(a model.Auction) model.Auction {
	if a.WinnerID != nil {
		winner := *a.WinnerID
		a.WinnerID = &winner
	}
	return a
}
