package perftests

import (
	"context"
	"fmt"
	"testing"
	"time"

	account "auction-site/internal/accountService"
	"auction-site/internal/alarm"
	bidding "auction-site/internal/biddingService"
	"auction-site/internal/repository"
	session "auction-site/internal/sessionService"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// benchSite is one site populated with logged-in bidders and open auctions
type benchSite struct {
	svc      *bidding.BiddingService
	siteID   int64
	seller   string
	tokens   []string
	auctions []int64
}

// setupSite creates a site with numUsers bidders and numAuctions auctions
// starting at price 100 and ending in a day
func setupSite(tb testing.TB, numUsers, numAuctions int) *benchSite {
	tb.Helper()
	ctx := context.Background()

	store := repository.WithRetry(repository.NewMemoryRepo(), repository.DefaultMaxRetries)
	clock := alarm.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	sessions := session.NewSessionService(store, clock)
	registry := account.NewRegistry(store, clock, sessions, account.Options{BcryptCost: bcrypt.MinCost})
	tb.Cleanup(registry.Close)

	site, err := registry.CreateSite(ctx, "bench", 0, 24*3600, decimal.NewFromInt(1))
	if err != nil {
		tb.Fatalf("failed to create site: %v", err)
	}

	login := func(username string) string {
		if _, err := registry.CreateUser(ctx, site.ID, username, "password"); err != nil {
			tb.Fatalf("failed to create user %s: %v", username, err)
		}
		s, err := sessions.Login(ctx, site.ID, username, "password")
		if err != nil || s == nil {
			tb.Fatalf("failed to log in %s: %v", username, err)
		}
		return s.Token
	}

	bs := &benchSite{
		svc:    bidding.NewBiddingService(store, clock, nil),
		siteID: site.ID,
		seller: login("seller"),
	}
	for i := 0; i < numUsers; i++ {
		bs.tokens = append(bs.tokens, login(fmt.Sprintf("user_%d", i)))
	}

	endsOn := clock.Now(0).Add(24 * time.Hour)
	for i := 0; i < numAuctions; i++ {
		a, err := bs.svc.CreateAuction(ctx, site.ID, bs.seller, fmt.Sprintf("item_%d", i), endsOn, decimal.NewFromInt(100))
		if err != nil {
			tb.Fatalf("failed to create auction: %v", err)
		}
		bs.auctions = append(bs.auctions, a.ID)
	}
	return bs
}
