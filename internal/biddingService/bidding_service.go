package bidding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-site/internal/alarm"
	"auction-site/internal/auctionerrors"
	"auction-site/internal/events"
	"auction-site/internal/metrics"
	model "auction-site/internal/models"
	"auction-site/internal/repository"
	session "auction-site/internal/sessionService"
	"auction-site/utils"

	"github.com/shopspring/decimal"
)

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	store     repository.Store
	clock     alarm.Service
	publisher events.Publisher
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(store repository.Store, clock alarm.Service, publisher events.Publisher) *BiddingService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &BiddingService{
		store:     store,
		clock:     clock,
		publisher: publisher,
	}
}

// CreateAuction opens an auction sold by the owner of token
func (s *BiddingService) CreateAuction(ctx context.Context, siteID int64, token, description string,
	endsOn time.Time, startingPrice decimal.Decimal) (model.Auction, error) {
	if description == "" {
		return model.Auction{}, fmt.Errorf("service: %w - empty description", auctionerrors.ErrInvalidArgument)
	}
	if startingPrice.IsNegative() {
		return model.Auction{}, fmt.Errorf("service: %w - negative starting price", auctionerrors.ErrOutOfRange)
	}

	var auction model.Auction
	err := s.store.Update(ctx, siteID, func(tx repository.Tx) error {
		now := s.clock.Now(tx.Site().Timezone)

		seller, err := session.Validate(tx, token, now)
		if err != nil {
			return err
		}
		if !endsOn.After(now) {
			return fmt.Errorf("service: %w - auction would end at %s, site time is %s",
				auctionerrors.ErrTimeTravel, endsOn.Format(time.RFC3339), now.Format(time.RFC3339))
		}

		auction = model.Auction{
			SellerID:      seller.UserID,
			Description:   description,
			EndsOn:        endsOn,
			StartingPrice: startingPrice,
			ActualPrice:   startingPrice,
			TopAmount:     decimal.Zero,
		}
		if err := tx.CreateAuction(&auction); err != nil {
			return err
		}
		return session.Extend(tx, &seller, now)
	})
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to create auction: %w", auctionerrors.FromStore(err, "session"))
	}

	metrics.AuctionsCreated.Inc()
	utils.Info("auction created", map[string]any{
		"site_id":    siteID,
		"auction_id": auction.ID,
		"seller_id":  auction.SellerID,
	})
	s.publish(ctx, events.Subject(siteID, events.KindCreated), events.AuctionCreated{
		SiteID:        siteID,
		AuctionID:     auction.ID,
		SellerID:      auction.SellerID,
		Description:   auction.Description,
		EndsOn:        auction.EndsOn,
		StartingPrice: auction.StartingPrice,
	})
	return auction, nil
}

// Bid places offer on auctionID on behalf of the owner of token.
// A rejected offer is reported through the Outcome, not as an error.
func (s *BiddingService) Bid(ctx context.Context, siteID, auctionID int64, token string, offer decimal.Decimal) (Outcome, error) {
	if offer.IsNegative() {
		return OutcomeRejected, fmt.Errorf("service: %w - negative offer", auctionerrors.ErrOutOfRange)
	}

	begin := time.Now()
	defer func() { metrics.BidDuration.Observe(time.Since(begin).Seconds()) }()

	var (
		outcome Outcome
		updated model.Auction
	)
	err := s.store.Update(ctx, siteID, func(tx repository.Tx) error {
		outcome = OutcomeRejected
		site := tx.Site()
		now := s.clock.Now(site.Timezone)

		auction, err := tx.GetAuction(auctionID)
		if errors.Is(err, auctionerrors.ErrNotFound) {
			return fmt.Errorf("service: %w - auction %d not found", auctionerrors.ErrInvalidState, auctionID)
		}
		if err != nil {
			return err
		}
		if auction.Ended(now) {
			return fmt.Errorf("service: %w - auction %d has ended", auctionerrors.ErrInvalidState, auctionID)
		}

		bidder, err := session.Validate(tx, token, now)
		if err != nil {
			return err
		}
		if bidder.UserID == auction.SellerID {
			return fmt.Errorf("service: %w - sellers cannot bid on their own auction", auctionerrors.ErrInvalidArgument)
		}

		next, result := Decide(auction, bidder.UserID, offer, site.MinimumBidIncrement)
		if !result.Accepted() {
			return nil
		}
		if err := tx.UpdateAuction(&next); err != nil {
			return err
		}
		if err := session.Extend(tx, &bidder, now); err != nil {
			return err
		}
		outcome, updated = result, next
		return nil
	})
	if err != nil {
		return OutcomeRejected, fmt.Errorf("service: failed to bid on auction %d: %w", auctionID, auctionerrors.FromStore(err, "auction"))
	}

	metrics.BidsTotal.WithLabelValues(outcome.String()).Inc()
	if !outcome.Accepted() {
		return outcome, nil
	}

	utils.Info("bid accepted", map[string]any{
		"site_id":    siteID,
		"auction_id": auctionID,
		"outcome":    outcome.String(),
	})
	s.publish(ctx, events.Subject(siteID, events.KindBid), events.BidPlaced{
		SiteID:      siteID,
		AuctionID:   auctionID,
		Outcome:     outcome.String(),
		ActualPrice: updated.ActualPrice,
		WinnerID:    updated.WinnerID,
	})
	return outcome, nil
}

// GetAuction returns the public view of auctionID
func (s *BiddingService) GetAuction(ctx context.Context, siteID, auctionID int64) (model.Auction, error) {
	var auction model.Auction
	err := s.store.View(ctx, siteID, func(tx repository.Tx) error {
		var err error
		auction, err = tx.GetAuction(auctionID)
		return err
	})
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %d: %w", auctionID, auctionerrors.FromStore(err, "auction"))
	}
	return auction, nil
}

// CurrentPrice returns what the current winner of auctionID would pay
func (s *BiddingService) CurrentPrice(ctx context.Context, siteID, auctionID int64) (decimal.Decimal, error) {
	auction, err := s.GetAuction(ctx, siteID, auctionID)
	if err != nil {
		return decimal.Zero, err
	}
	return auction.ActualPrice, nil
}

// CurrentWinner returns the user currently winning auctionID, or nil when no
// bid was accepted yet
func (s *BiddingService) CurrentWinner(ctx context.Context, siteID, auctionID int64) (*model.User, error) {
	var winner *model.User
	err := s.store.View(ctx, siteID, func(tx repository.Tx) error {
		auction, err := tx.GetAuction(auctionID)
		if err != nil {
			return err
		}
		if auction.WinnerID == nil {
			return nil
		}
		user, err := tx.GetUserByID(*auction.WinnerID)
		if err != nil {
			return err
		}
		winner = &user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to get winner of auction %d: %w", auctionID, auctionerrors.FromStore(err, "auction"))
	}
	return winner, nil
}

// DeleteAuction removes auctionID
func (s *BiddingService) DeleteAuction(ctx context.Context, siteID, auctionID int64) error {
	err := s.store.Update(ctx, siteID, func(tx repository.Tx) error {
		return tx.DeleteAuction(auctionID)
	})
	if err != nil {
		return fmt.Errorf("service: failed to delete auction %d: %w", auctionID, auctionerrors.FromStore(err, "auction"))
	}

	metrics.AuctionsDeleted.Inc()
	utils.Info("auction deleted", map[string]any{
		"site_id":    siteID,
		"auction_id": auctionID,
	})
	s.publish(ctx, events.Subject(siteID, events.KindDeleted), events.AuctionDeleted{
		SiteID:    siteID,
		AuctionID: auctionID,
	})
	return nil
}

func (s *BiddingService) publish(ctx context.Context, subject string, v any) {
	if err := s.publisher.Publish(ctx, subject, v); err != nil {
		utils.Warn("failed to publish event", map[string]any{
			"subject": subject,
			"error":   err.Error(),
		})
	}
}
