package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Site is a tenant namespace that owns users, sessions and auctions
type Site struct {
	ID                       int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name                     string          `json:"name" gorm:"type:varchar(128);uniqueIndex;not null"`
	Timezone                 int             `json:"timezone" gorm:"not null"`
	SessionExpirationSeconds int             `json:"session_expiration_seconds" gorm:"not null"`
	MinimumBidIncrement      decimal.Decimal `json:"minimum_bid_increment" gorm:"type:numeric(20,4);not null"`
}

// SessionExpiration returns the site's session lifetime as a duration
func (s Site) SessionExpiration() time.Duration {
	return time.Duration(s.SessionExpirationSeconds) * time.Second
}

// SiteInfo is the administrative projection of a site
type SiteInfo struct {
	Name     string `json:"name"`
	Timezone int    `json:"timezone"`
}

// User represents a participant registered on a site
type User struct {
	ID           int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	SiteID       int64  `json:"site_id" gorm:"not null;uniqueIndex:idx_users_site_username"`
	Username     string `json:"username" gorm:"type:varchar(64);not null;uniqueIndex:idx_users_site_username"`
	PasswordHash string `json:"-" gorm:"type:text;not null"`
}

// Session is a time-bounded login token owned by one user
type Session struct {
	Token      string    `json:"token" gorm:"type:varchar(64);primaryKey"`
	SiteID     int64     `json:"site_id" gorm:"not null;index"`
	UserID     int64     `json:"user_id" gorm:"not null;uniqueIndex"`
	ValidUntil time.Time `json:"valid_until" gorm:"type:timestamptz;not null;index"`
	Version    int64     `json:"-" gorm:"not null;default:1"`
}

// Expired reports whether the session is no longer usable at the given instant
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ValidUntil)
}

// Auction is an item on sale under proxy bidding.
// TopAmount is the current winner's ceiling and never leaves the engine.
type Auction struct {
	ID            int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	SiteID        int64           `json:"site_id" gorm:"not null;index"`
	SellerID      int64           `json:"seller_id" gorm:"not null;index"`
	WinnerID      *int64          `json:"winner_id,omitempty" gorm:"index"`
	Description   string          `json:"description" gorm:"type:text;not null"`
	EndsOn        time.Time       `json:"ends_on" gorm:"type:timestamptz;not null"`
	StartingPrice decimal.Decimal `json:"starting_price" gorm:"type:numeric(20,4);not null"`
	ActualPrice   decimal.Decimal `json:"actual_price" gorm:"type:numeric(20,4);not null"`
	TopAmount     decimal.Decimal `json:"-" gorm:"type:numeric(20,4);not null"`
	Version       int64           `json:"-" gorm:"not null;default:1"`
}

// Ended reports whether bidding on the auction is closed at the given instant
func (a Auction) Ended(now time.Time) bool {
	return a.EndsOn.Before(now)
}

// HasWinner reports whether userID is the auction's current winner
func (a Auction) HasWinner(userID int64) bool {
	return a.WinnerID != nil && *a.WinnerID == userID
}
