package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	account "auction-site/internal/accountService"
	"auction-site/internal/auctionerrors"
	bidding "auction-site/internal/biddingService"
	model "auction-site/internal/models"
	session "auction-site/internal/sessionService"
	"auction-site/services/auction/helpers"
	"auction-site/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const siteKey = "site"

type AuctionServiceInterface interface {
	CreateSite(ctx context.Context, name string, timezone, sessionExpirationSeconds int, minimumBidIncrement decimal.Decimal) (model.Site, error)
	LoadSite(ctx context.Context, name string) (model.Site, error)
	ListSites(ctx context.Context) ([]model.SiteInfo, error)
	DeleteSite(ctx context.Context, siteID int64) error
	SiteNow(ctx context.Context, siteID int64) (time.Time, error)

	CreateUser(ctx context.Context, siteID int64, username, password string) (model.User, error)
	DeleteUser(ctx context.Context, siteID int64, username string) error
	LookupUsers(ctx context.Context, siteID int64) ([]model.User, error)
	LookupAuctions(ctx context.Context, siteID int64, onlyNotEnded bool) ([]model.Auction, error)
	LookupSessions(ctx context.Context, siteID int64) ([]model.Session, error)
	WonAuctions(ctx context.Context, siteID int64, username string) ([]model.Auction, error)

	Login(ctx context.Context, siteID int64, username, password string) (*model.Session, error)
	Logout(ctx context.Context, siteID int64, token string) error
	ValidUntil(ctx context.Context, siteID int64, token string) (time.Time, error)

	CreateAuction(ctx context.Context, siteID int64, token, description string, endsOn time.Time, startingPrice decimal.Decimal) (model.Auction, error)
	Bid(ctx context.Context, siteID, auctionID int64, token string, offer decimal.Decimal) (bidding.Outcome, error)
	GetAuction(ctx context.Context, siteID, auctionID int64) (model.Auction, error)
	CurrentWinner(ctx context.Context, siteID, auctionID int64) (*model.User, error)
	DeleteAuction(ctx context.Context, siteID, auctionID int64) error
}

// Services bundles the three core services behind AuctionServiceInterface
type Services struct {
	*account.Registry
	*session.SessionService
	*bidding.BiddingService
}

var _ AuctionServiceInterface = Services{}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// SiteMiddleware resolves the :site path parameter and stores the site on
// the context for the handlers below it
func (h *AuctionHandler) SiteMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("site")
		site, err := h.service.LoadSite(c.Request.Context(), name)
		if err != nil {
			helpers.HandleServiceError(c, "SiteMiddleware", err, map[string]any{"site": name})
			c.Abort()
			return
		}
		c.Set(siteKey, site)
		c.Next()
	}
}

func currentSite(c *gin.Context) model.Site {
	return c.MustGet(siteKey).(model.Site)
}

func auctionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("auction_id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err, "invalid auction id")
		return 0, false
	}
	return id, true
}

// CreateSiteHandler handles POST /sites
func (h *AuctionHandler) CreateSiteHandler(c *gin.Context) {
	var req helpers.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateSiteHandler", err)
		return
	}

	site, err := h.service.CreateSite(c.Request.Context(), req.Name, req.Timezone, req.SessionExpirationSeconds, req.MinimumBidIncrement)
	if err != nil {
		helpers.HandleServiceError(c, "CreateSiteHandler", err, map[string]any{"name": req.Name})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewSiteResponse(site), "site created successfully")
	helpers.LogSuccess("CreateSiteHandler", "site created successfully", map[string]any{
		"site_id": site.ID,
		"name":    site.Name,
	})
}

// ListSitesHandler handles GET /sites
func (h *AuctionHandler) ListSitesHandler(c *gin.Context) {
	sites, err := h.service.ListSites(c.Request.Context())
	if err != nil {
		helpers.HandleServiceError(c, "ListSitesHandler", err, nil)
		return
	}
	if sites == nil {
		sites = []model.SiteInfo{}
	}

	utils.JSONResponse(c, http.StatusOK, sites, "sites retrieved successfully")
}

// GetSiteHandler handles GET /sites/:site
func (h *AuctionHandler) GetSiteHandler(c *gin.Context) {
	site := currentSite(c)
	now, err := h.service.SiteNow(c.Request.Context(), site.ID)
	if err != nil {
		helpers.HandleServiceError(c, "GetSiteHandler", err, map[string]any{"site_id": site.ID})
		return
	}

	resp := helpers.NewSiteResponse(site)
	resp.Now = now.Format(time.RFC3339)
	utils.JSONResponse(c, http.StatusOK, resp, "site retrieved successfully")
}

// DeleteSiteHandler handles DELETE /sites/:site
func (h *AuctionHandler) DeleteSiteHandler(c *gin.Context) {
	site := currentSite(c)
	if err := h.service.DeleteSite(c.Request.Context(), site.ID); err != nil {
		helpers.HandleServiceError(c, "DeleteSiteHandler", err, map[string]any{"site_id": site.ID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "site deleted successfully")
	helpers.LogSuccess("DeleteSiteHandler", "site deleted successfully", map[string]any{"site_id": site.ID})
}

// CreateUserHandler handles POST /sites/:site/users
func (h *AuctionHandler) CreateUserHandler(c *gin.Context) {
	var req helpers.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateUserHandler", err)
		return
	}

	site := currentSite(c)
	user, err := h.service.CreateUser(c.Request.Context(), site.ID, req.Username, req.Password)
	if err != nil {
		helpers.HandleServiceError(c, "CreateUserHandler", err, map[string]any{
			"site_id":  site.ID,
			"username": req.Username,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.UserResponse{ID: user.ID, Username: user.Username}, "user created successfully")
	helpers.LogSuccess("CreateUserHandler", "user created successfully", map[string]any{
		"site_id": site.ID,
		"user_id": user.ID,
	})
}

// ListUsersHandler handles GET /sites/:site/users
func (h *AuctionHandler) ListUsersHandler(c *gin.Context) {
	site := currentSite(c)
	users, err := h.service.LookupUsers(c.Request.Context(), site.ID)
	if err != nil {
		helpers.HandleServiceError(c, "ListUsersHandler", err, map[string]any{"site_id": site.ID})
		return
	}

	resp := make([]helpers.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, helpers.UserResponse{ID: u.ID, Username: u.Username})
	}
	utils.JSONResponse(c, http.StatusOK, resp, "users retrieved successfully")
}

// DeleteUserHandler handles DELETE /sites/:site/users/:username
func (h *AuctionHandler) DeleteUserHandler(c *gin.Context) {
	site := currentSite(c)
	username := c.Param("username")
	if err := h.service.DeleteUser(c.Request.Context(), site.ID, username); err != nil {
		helpers.HandleServiceError(c, "DeleteUserHandler", err, map[string]any{
			"site_id":  site.ID,
			"username": username,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "user deleted successfully")
	helpers.LogSuccess("DeleteUserHandler", "user deleted successfully", map[string]any{
		"site_id":  site.ID,
		"username": username,
	})
}

// WonAuctionsHandler handles GET /sites/:site/users/:username/won
func (h *AuctionHandler) WonAuctionsHandler(c *gin.Context) {
	site := currentSite(c)
	username := c.Param("username")
	won, err := h.service.WonAuctions(c.Request.Context(), site.ID, username)
	if err != nil {
		helpers.HandleServiceError(c, "WonAuctionsHandler", err, map[string]any{
			"site_id":  site.ID,
			"username": username,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponses(won), "won auctions retrieved successfully")
}

// LoginHandler handles POST /sites/:site/login
func (h *AuctionHandler) LoginHandler(c *gin.Context) {
	var req helpers.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	site := currentSite(c)
	s, err := h.service.Login(c.Request.Context(), site.ID, req.Username, req.Password)
	if err != nil {
		helpers.HandleServiceError(c, "LoginHandler", err, map[string]any{"site_id": site.ID})
		return
	}
	if s == nil {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("bad username or password"), "invalid credentials")
		utils.Warn("LoginHandler: login denied", map[string]any{
			"site_id":  site.ID,
			"username": req.Username,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewSessionResponse(*s), "logged in successfully")
	helpers.LogSuccess("LoginHandler", "logged in successfully", map[string]any{
		"site_id": site.ID,
		"user_id": s.UserID,
	})
}

// LogoutHandler handles POST /sites/:site/logout
func (h *AuctionHandler) LogoutHandler(c *gin.Context) {
	token, ok := helpers.SessionToken(c)
	if !ok {
		return
	}

	site := currentSite(c)
	if err := h.service.Logout(c.Request.Context(), site.ID, token); err != nil {
		helpers.HandleServiceError(c, "LogoutHandler", err, map[string]any{"site_id": site.ID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "logged out successfully")
}

// SessionHandler handles GET /sites/:site/session
func (h *AuctionHandler) SessionHandler(c *gin.Context) {
	token, ok := helpers.SessionToken(c)
	if !ok {
		return
	}

	site := currentSite(c)
	validUntil, err := h.service.ValidUntil(c.Request.Context(), site.ID, token)
	if err != nil {
		helpers.HandleServiceError(c, "SessionHandler", err, map[string]any{"site_id": site.ID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"valid_until": validUntil.Format(time.RFC3339)}, "session retrieved successfully")
}

// ListSessionsHandler handles GET /sites/:site/sessions
func (h *AuctionHandler) ListSessionsHandler(c *gin.Context) {
	site := currentSite(c)
	sessions, err := h.service.LookupSessions(c.Request.Context(), site.ID)
	if err != nil {
		helpers.HandleServiceError(c, "ListSessionsHandler", err, map[string]any{"site_id": site.ID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewSessionInfoResponses(sessions), "sessions retrieved successfully")
}

// CreateAuctionHandler handles POST /sites/:site/auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	token, ok := helpers.SessionToken(c)
	if !ok {
		return
	}
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	site := currentSite(c)
	a, err := h.service.CreateAuction(c.Request.Context(), site.ID, token, req.Description, req.EndsOn, req.StartingPrice)
	if err != nil {
		helpers.HandleServiceError(c, "CreateAuctionHandler", err, map[string]any{"site_id": site.ID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewAuctionResponse(a), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"site_id":    site.ID,
		"auction_id": a.ID,
		"seller_id":  a.SellerID,
	})
}

// ListAuctionsHandler handles GET /sites/:site/auctions?open=true
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	onlyNotEnded, err := strconv.ParseBool(c.DefaultQuery("open", "false"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err, "invalid open filter")
		return
	}

	site := currentSite(c)
	auctions, err := h.service.LookupAuctions(c.Request.Context(), site.ID, onlyNotEnded)
	if err != nil {
		helpers.HandleServiceError(c, "ListAuctionsHandler", err, map[string]any{"site_id": site.ID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponses(auctions), "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /sites/:site/auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}

	site := currentSite(c)
	ctx := c.Request.Context()
	a, err := h.service.GetAuction(ctx, site.ID, id)
	if err != nil {
		helpers.HandleServiceError(c, "GetAuctionHandler", err, map[string]any{"site_id": site.ID, "auction_id": id})
		return
	}
	resp := helpers.NewAuctionResponse(a)

	if a.WinnerID != nil {
		winner, err := h.service.CurrentWinner(ctx, site.ID, id)
		if err != nil && !errors.Is(err, auctionerrors.ErrInvalidState) {
			helpers.HandleServiceError(c, "GetAuctionHandler", err, map[string]any{"site_id": site.ID, "auction_id": id})
			return
		}
		if winner != nil {
			resp.Winner = winner.Username
		}
	}

	utils.JSONResponse(c, http.StatusOK, resp, "auction retrieved successfully")
}

// DeleteAuctionHandler handles DELETE /sites/:site/auctions/:auction_id
func (h *AuctionHandler) DeleteAuctionHandler(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}

	site := currentSite(c)
	if err := h.service.DeleteAuction(c.Request.Context(), site.ID, id); err != nil {
		helpers.HandleServiceError(c, "DeleteAuctionHandler", err, map[string]any{"site_id": site.ID, "auction_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "auction deleted successfully")
	helpers.LogSuccess("DeleteAuctionHandler", "auction deleted successfully", map[string]any{
		"site_id":    site.ID,
		"auction_id": id,
	})
}

// BidHandler handles POST /sites/:site/auctions/:auction_id/bids
func (h *AuctionHandler) BidHandler(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}
	token, ok := helpers.SessionToken(c)
	if !ok {
		return
	}
	var req helpers.BidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "BidHandler", err)
		return
	}

	site := currentSite(c)
	outcome, err := h.service.Bid(c.Request.Context(), site.ID, id, token, req.Offer)
	if err != nil {
		helpers.HandleServiceError(c, "BidHandler", err, map[string]any{
			"site_id":    site.ID,
			"auction_id": id,
			"offer":      req.Offer.String(),
		})
		return
	}

	resp := helpers.BidResponse{Outcome: outcome.String(), Accepted: outcome.Accepted()}
	if !outcome.Accepted() {
		utils.JSONResponse(c, http.StatusOK, resp, "bid rejected")
		return
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid accepted")
	helpers.LogSuccess("BidHandler", "bid accepted", map[string]any{
		"site_id":    site.ID,
		"auction_id": id,
		"outcome":    outcome.String(),
	})
}
