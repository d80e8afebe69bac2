package helpers

import (
	"time"

	model "auction-site/internal/models"

	"github.com/shopspring/decimal"
)

// Request DTOs
type CreateSiteRequest struct {
	Name                     string          `json:"name" binding:"required"`
	Timezone                 int             `json:"timezone"`
	SessionExpirationSeconds int             `json:"session_expiration_seconds" binding:"required"`
	MinimumBidIncrement      decimal.Decimal `json:"minimum_bid_increment"`
}

type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateAuctionRequest struct {
	Description   string          `json:"description" binding:"required"`
	EndsOn        time.Time       `json:"ends_on" binding:"required"`
	StartingPrice decimal.Decimal `json:"starting_price"`
}

type BidRequest struct {
	Offer decimal.Decimal `json:"offer"`
}

// Response DTOs
type SiteResponse struct {
	ID                       int64           `json:"id"`
	Name                     string          `json:"name"`
	Timezone                 int             `json:"timezone"`
	SessionExpirationSeconds int             `json:"session_expiration_seconds"`
	MinimumBidIncrement      decimal.Decimal `json:"minimum_bid_increment"`
	Now                      string          `json:"now,omitempty"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type SessionResponse struct {
	Token      string `json:"token"`
	UserID     int64  `json:"user_id"`
	ValidUntil string `json:"valid_until"`
}

// SessionInfoResponse describes a session without its bearer token
type SessionInfoResponse struct {
	UserID     int64  `json:"user_id"`
	ValidUntil string `json:"valid_until"`
}

type AuctionResponse struct {
	ID            int64           `json:"id"`
	SellerID      int64           `json:"seller_id"`
	WinnerID      *int64          `json:"winner_id,omitempty"`
	Winner        string          `json:"winner,omitempty"`
	Description   string          `json:"description"`
	EndsOn        string          `json:"ends_on"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
}

type BidResponse struct {
	Outcome  string `json:"outcome"`
	Accepted bool   `json:"accepted"`
}

// NewSiteResponse builds the public view of a site
func NewSiteResponse(s model.Site) SiteResponse {
	return SiteResponse{
		ID:                       s.ID,
		Name:                     s.Name,
		Timezone:                 s.Timezone,
		SessionExpirationSeconds: s.SessionExpirationSeconds,
		MinimumBidIncrement:      s.MinimumBidIncrement,
	}
}

func NewSessionResponse(s model.Session) SessionResponse {
	return SessionResponse{
		Token:      s.Token,
		UserID:     s.UserID,
		ValidUntil: s.ValidUntil.Format(time.RFC3339),
	}
}

// NewAuctionResponse builds the public view of an auction; the winner's
// ceiling is never part of it
func NewAuctionResponse(a model.Auction) AuctionResponse {
	return AuctionResponse{
		ID:            a.ID,
		SellerID:      a.SellerID,
		WinnerID:      a.WinnerID,
		Description:   a.Description,
		EndsOn:        a.EndsOn.Format(time.RFC3339),
		StartingPrice: a.StartingPrice,
		CurrentPrice:  a.ActualPrice,
	}
}

func NewAuctionResponses(auctions []model.Auction) []AuctionResponse {
	resp := make([]AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		resp = append(resp, NewAuctionResponse(a))
	}
	return resp
}

// NewSessionInfoResponses projects sessions for listings, never exposing tokens
func NewSessionInfoResponses(sessions []model.Session) []SessionInfoResponse {
	out := make([]SessionInfoResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionInfoResponse{
			UserID:     s.UserID,
			ValidUntil: s.ValidUntil.Format(time.RFC3339),
		})
	}
	return out
}
