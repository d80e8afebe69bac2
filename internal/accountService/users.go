package account

import (
	"context"
	"errors"
	"fmt"

	"auction-site/internal/auctionerrors"
	"auction-site/internal/events"
	model "auction-site/internal/models"
	"auction-site/internal/repository"
	session "auction-site/internal/sessionService"
	"auction-site/utils"

	"github.com/shopspring/decimal"
)

// CreateUser registers username on siteID
func (r *Registry) CreateUser(ctx context.Context, siteID int64, username, password string) (model.User, error) {
	if err := session.ValidateCredentials(username, password); err != nil {
		return model.User{}, err
	}

	hash, err := session.HashPassword(password, r.bcryptCost)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{Username: username, PasswordHash: hash}
	err = r.store.Update(ctx, siteID, func(tx repository.Tx) error {
		return tx.CreateUser(&user)
	})
	if err != nil {
		return model.User{}, fmt.Errorf("service: failed to create user %s: %w", username, auctionerrors.FromStore(err, "username "+username))
	}

	utils.Info("user created", map[string]any{
		"site_id": siteID,
		"user_id": user.ID,
	})
	return user, nil
}

// DeleteUser removes username from siteID. A user who is selling or winning
// an auction that has not ended cannot be deleted. Otherwise the user's won
// auctions lose their winner, the user's sold auctions are deleted, and so is
// the user's session.
func (r *Registry) DeleteUser(ctx context.Context, siteID int64, username string) error {
	var deleted []int64
	err := r.store.Update(ctx, siteID, func(tx repository.Tx) error {
		deleted = deleted[:0]

		user, err := tx.GetUser(username)
		if errors.Is(err, auctionerrors.ErrNotFound) {
			return fmt.Errorf("service: %w - user %s not found", auctionerrors.ErrInvalidState, username)
		}
		if err != nil {
			return err
		}
		now := r.clock.Now(tx.Site().Timezone)

		won, err := tx.ListAuctions(repository.AuctionFilter{WinnerID: &user.ID})
		if err != nil {
			return err
		}
		sold, err := tx.ListAuctions(repository.AuctionFilter{SellerID: &user.ID})
		if err != nil {
			return err
		}
		for _, a := range won {
			if !a.Ended(now) {
				return fmt.Errorf("service: %w - user %s is winning auction %d", auctionerrors.ErrInvalidState, username, a.ID)
			}
		}
		for _, a := range sold {
			if !a.Ended(now) {
				return fmt.Errorf("service: %w - user %s is selling auction %d", auctionerrors.ErrInvalidState, username, a.ID)
			}
		}

		for _, a := range won {
			a.WinnerID = nil
			a.TopAmount = decimal.Zero
			if err := tx.UpdateAuction(&a); err != nil {
				return err
			}
		}
		for _, a := range sold {
			if err := ignoreMissing(tx.DeleteAuction(a.ID)); err != nil {
				return err
			}
			deleted = append(deleted, a.ID)
		}

		current, err := tx.GetSessionByUser(user.ID)
		switch {
		case err == nil:
			if err := ignoreMissing(tx.DeleteSession(current.Token)); err != nil {
				return err
			}
		case !errors.Is(err, auctionerrors.ErrNotFound):
			return err
		}

		return tx.DeleteUser(user.ID)
	})
	if err != nil {
		return fmt.Errorf("service: failed to delete user %s: %w", username, auctionerrors.FromStore(err, "user"))
	}

	for _, id := range deleted {
		r.publish(ctx, events.Subject(siteID, events.KindDeleted), events.AuctionDeleted{SiteID: siteID, AuctionID: id})
	}
	utils.Info("user deleted", map[string]any{
		"site_id":  siteID,
		"username": username,
	})
	return nil
}

// LookupUsers returns every user of siteID
func (r *Registry) LookupUsers(ctx context.Context, siteID int64) ([]model.User, error) {
	var users []model.User
	err := r.store.View(ctx, siteID, func(tx repository.Tx) error {
		var err error
		users, err = tx.ListUsers()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list users: %w", auctionerrors.FromStore(err, "site"))
	}
	return users, nil
}

// LookupAuctions returns the auctions of siteID, optionally only those that
// have not ended
func (r *Registry) LookupAuctions(ctx context.Context, siteID int64, onlyNotEnded bool) ([]model.Auction, error) {
	var auctions []model.Auction
	err := r.store.View(ctx, siteID, func(tx repository.Tx) error {
		var filter repository.AuctionFilter
		if onlyNotEnded {
			now := r.clock.Now(tx.Site().Timezone)
			filter.EndingAfter = &now
		}
		var err error
		auctions, err = tx.ListAuctions(filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", auctionerrors.FromStore(err, "site"))
	}
	return auctions, nil
}

// LookupSessions returns every session of siteID, expired ones not yet swept
// included
func (r *Registry) LookupSessions(ctx context.Context, siteID int64) ([]model.Session, error) {
	var sessions []model.Session
	err := r.store.View(ctx, siteID, func(tx repository.Tx) error {
		var err error
		sessions, err = tx.ListSessions()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list sessions: %w", auctionerrors.FromStore(err, "site"))
	}
	return sessions, nil
}

// WonAuctions returns the auctions username has won, that is the ended
// auctions it is the winner of
func (r *Registry) WonAuctions(ctx context.Context, siteID int64, username string) ([]model.Auction, error) {
	var won []model.Auction
	err := r.store.View(ctx, siteID, func(tx repository.Tx) error {
		user, err := tx.GetUser(username)
		if errors.Is(err, auctionerrors.ErrNotFound) {
			return fmt.Errorf("service: %w - user %s not found", auctionerrors.ErrInvalidState, username)
		}
		if err != nil {
			return err
		}
		now := r.clock.Now(tx.Site().Timezone)

		auctions, err := tx.ListAuctions(repository.AuctionFilter{WinnerID: &user.ID})
		if err != nil {
			return err
		}
		won = make([]model.Auction, 0, len(auctions))
		for _, a := range auctions {
			if !a.EndsOn.After(now) {
				won = append(won, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list won auctions: %w", auctionerrors.FromStore(err, "user"))
	}
	return won, nil
}
