package repository

import (
	"context"
	"time"

	model "auction-site/internal/models"
)

//go:generate mockgen -destination=mock_repository.go -package=repository auction-site/internal/repository Store

// Store defines the transactional persistence contract of the auction site.
// All entity access other than site bootstrap happens inside a site-scoped
// transaction so that read-decide-write sequences commit atomically.
type Store interface {
	CreateSite(ctx context.Context, site *model.Site) error
	GetSiteByName(ctx context.Context, name string) (model.Site, error)
	ListSites(ctx context.Context) ([]model.Site, error)

	// Update runs fn in a read-write transaction on one site. If fn returns an
	// error nothing it wrote is kept.
	Update(ctx context.Context, siteID int64, fn func(tx Tx) error) error
	// View runs fn in a read-only transaction on one site.
	View(ctx context.Context, siteID int64, fn func(tx Tx) error) error
}

// AuctionFilter narrows ListAuctions. Zero values match everything.
type AuctionFilter struct {
	SellerID *int64
	WinnerID *int64
	// EndingAfter keeps auctions whose EndsOn is not before the instant
	EndingAfter *time.Time
}

// Tx is the view of one site inside a transaction
type Tx interface {
	Site() model.Site
	// DeleteSite removes the site itself. It fails unless the site has no
	// users, sessions or auctions left.
	DeleteSite() error

	GetUser(username string) (model.User, error)
	GetUserByID(id int64) (model.User, error)
	ListUsers() ([]model.User, error)
	CreateUser(user *model.User) error
	DeleteUser(id int64) error

	GetSession(token string) (model.Session, error)
	GetSessionByUser(userID int64) (model.Session, error)
	ListSessions() ([]model.Session, error)
	CreateSession(session *model.Session) error
	// UpdateSession writes session if its Version still matches the stored row
	// and bumps Version on success.
	UpdateSession(session *model.Session) error
	DeleteSession(token string) error
	DeleteExpiredSessions(now time.Time) (int, error)

	GetAuction(id int64) (model.Auction, error)
	ListAuctions(filter AuctionFilter) ([]model.Auction, error)
	CreateAuction(auction *model.Auction) error
	// UpdateAuction writes auction if its Version still matches the stored row
	// and bumps Version on success.
	UpdateAuction(auction *model.Auction) error
	DeleteAuction(id int64) error
}

// Matches reports whether the auction passes the filter
func (f AuctionFilter) Matches(a model.Auction) bool {
	if f.SellerID != nil && a.SellerID != *f.SellerID {
		return false
	}
	if f.WinnerID != nil && (a.WinnerID == nil || *a.WinnerID != *f.WinnerID) {
		return false
	}
	if f.EndingAfter != nil && a.EndsOn.Before(*f.EndingAfter) {
		return false
	}
	return true
}
