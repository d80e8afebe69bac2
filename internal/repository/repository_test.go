package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-site/internal/auctionerrors"
	model "auction-site/internal/models"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Helper to create a repo seeded with one site
func newSeededRepo(t *testing.T) (*MemoryRepo, model.Site) {
	t.Helper()
	repo := NewMemoryRepo()
	site := model.Site{
		Name:                     "site",
		SessionExpirationSeconds: 3600,
		MinimumBidIncrement:      decimal.NewFromInt(1),
	}
	require.NoError(t, repo.CreateSite(context.Background(), &site))
	return repo, site
}

// Helper to create a user inside its own transaction
func createUser(t *testing.T, repo Store, siteID int64, username string) model.User {
	t.Helper()
	user := model.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, repo.Update(context.Background(), siteID, func(tx Tx) error {
		return tx.CreateUser(&user)
	}))
	return user
}

func createAuction(t *testing.T, repo Store, siteID, sellerID int64, endsOn time.Time) model.Auction {
	t.Helper()
	auction := model.Auction{
		SellerID:      sellerID,
		Description:   "lot",
		EndsOn:        endsOn,
		StartingPrice: decimal.NewFromInt(10),
		ActualPrice:   decimal.NewFromInt(10),
	}
	require.NoError(t, repo.Update(context.Background(), siteID, func(tx Tx) error {
		return tx.CreateAuction(&auction)
	}))
	return auction
}

func TestMemoryRepo_Sites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, site := newSeededRepo(t)

	t.Run("lookup_by_name", func(t *testing.T) {
		got, err := repo.GetSiteByName(ctx, "site")
		require.NoError(t, err)
		require.Equal(t, site, got)
	})

	t.Run("unknown_name", func(t *testing.T) {
		_, err := repo.GetSiteByName(ctx, "nope")
		require.ErrorIs(t, err, auctionerrors.ErrNotFound)
	})

	t.Run("duplicate_name", func(t *testing.T) {
		dup := model.Site{Name: "site"}
		require.ErrorIs(t, repo.CreateSite(ctx, &dup), auctionerrors.ErrUniquenessConflict)
	})

	t.Run("list_ordered_by_id", func(t *testing.T) {
		other := model.Site{Name: "other"}
		require.NoError(t, repo.CreateSite(ctx, &other))
		sites, err := repo.ListSites(ctx)
		require.NoError(t, err)
		require.Len(t, sites, 2)
		require.Equal(t, site.ID, sites[0].ID)
		require.Equal(t, other.ID, sites[1].ID)
	})

	t.Run("cancelled_context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.ListSites(cctx)
		require.ErrorIs(t, err, auctionerrors.ErrStoreUnavailable)
	})
}

func TestMemoryRepo_UpdateRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, site := newSeededRepo(t)
	seller := createUser(t, repo, site.ID, "seller")
	auction := createAuction(t, repo, site.ID, seller.ID, time.Now().Add(time.Hour))

	t.Run("on_error", func(t *testing.T) {
		boom := errors.New("boom")
		err := repo.Update(ctx, site.ID, func(tx Tx) error {
			require.NoError(t, tx.CreateUser(&model.User{Username: "ghost"}))
			require.NoError(t, tx.DeleteAuction(auction.ID))
			a := auction
			a.ActualPrice = decimal.NewFromInt(99)
			_ = tx.UpdateAuction(&a)
			return boom
		})
		require.ErrorIs(t, err, boom)

		require.NoError(t, repo.View(ctx, site.ID, func(tx Tx) error {
			_, err := tx.GetUser("ghost")
			require.ErrorIs(t, err, auctionerrors.ErrNotFound)
			got, err := tx.GetAuction(auction.ID)
			require.NoError(t, err)
			require.True(t, got.ActualPrice.Equal(decimal.NewFromInt(10)))
			require.Equal(t, auction.Version, got.Version)
			return nil
		}))
	})

	t.Run("on_panic", func(t *testing.T) {
		require.Panics(t, func() {
			_ = repo.Update(ctx, site.ID, func(tx Tx) error {
				require.NoError(t, tx.CreateUser(&model.User{Username: "panicker"}))
				panic("boom")
			})
		})

		require.NoError(t, repo.View(ctx, site.ID, func(tx Tx) error {
			_, err := tx.GetUser("panicker")
			require.ErrorIs(t, err, auctionerrors.ErrNotFound)
			return nil
		}))
	})
}

func TestMemoryRepo_ViewIsReadOnly(t *testing.T) {
	t.Parallel()
	repo, site := newSeededRepo(t)

	err := repo.View(context.Background(), site.ID, func(tx Tx) error {
		return tx.CreateUser(&model.User{Username: "x"})
	})
	require.ErrorIs(t, err, errReadOnly)
}

func TestMemoryRepo_VersionedWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, site := newSeededRepo(t)
	seller := createUser(t, repo, site.ID, "seller")
	auction := createAuction(t, repo, site.ID, seller.ID, time.Now().Add(time.Hour))
	require.Equal(t, int64(1), auction.Version)

	tests := []struct {
		name    string
		prepare func(tx Tx) error
		mutate  func(a *model.Auction)
		wantErr error
	}{
		{
			name:    "fresh_version",
			prepare: func(Tx) error { return nil },
			mutate:  func(a *model.Auction) {},
		},
		{
			name:    "stale_version",
			prepare: func(Tx) error { return nil },
			mutate:  func(a *model.Auction) { a.Version = 0 },
			wantErr: auctionerrors.ErrConcurrencyConflict,
		},
		{
			name:    "deleted_target",
			prepare: func(tx Tx) error { return tx.DeleteAuction(auction.ID) },
			mutate:  func(a *model.Auction) {},
			wantErr: auctionerrors.ErrTargetDeleted,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := repo.Update(ctx, site.ID, func(tx Tx) error {
				current, err := tx.GetAuction(auction.ID)
				require.NoError(t, err)
				if err := tc.prepare(tx); err != nil {
					return err
				}
				tc.mutate(&current)
				version := current.Version
				if err := tx.UpdateAuction(&current); err != nil {
					return err
				}
				require.Equal(t, version+1, current.Version)
				return errors.New("discard")
			})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.EqualError(t, err, "discard")
		})
	}
}

func TestMemoryRepo_Sessions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, site := newSeededRepo(t)
	alice := createUser(t, repo, site.ID, "alice")
	bob := createUser(t, repo, site.ID, "bob")
	now := time.Now()

	require.NoError(t, repo.Update(ctx, site.ID, func(tx Tx) error {
		if err := tx.CreateSession(&model.Session{Token: "a", UserID: alice.ID, ValidUntil: now}); err != nil {
			return err
		}
		return tx.CreateSession(&model.Session{Token: "b", UserID: bob.ID, ValidUntil: now.Add(time.Second)})
	}))

	t.Run("one_session_per_user", func(t *testing.T) {
		err := repo.Update(ctx, site.ID, func(tx Tx) error {
			return tx.CreateSession(&model.Session{Token: "c", UserID: alice.ID, ValidUntil: now})
		})
		require.ErrorIs(t, err, auctionerrors.ErrUniquenessConflict)
	})

	t.Run("lookup_by_user", func(t *testing.T) {
		require.NoError(t, repo.View(ctx, site.ID, func(tx Tx) error {
			s, err := tx.GetSessionByUser(bob.ID)
			require.NoError(t, err)
			require.Equal(t, "b", s.Token)
			return nil
		}))
	})

	t.Run("sweep_removes_sessions_at_deadline", func(t *testing.T) {
		var removed int
		require.NoError(t, repo.Update(ctx, site.ID, func(tx Tx) error {
			var err error
			removed, err = tx.DeleteExpiredSessions(now)
			return err
		}))
		require.Equal(t, 1, removed)

		require.NoError(t, repo.View(ctx, site.ID, func(tx Tx) error {
			sessions, err := tx.ListSessions()
			require.NoError(t, err)
			require.Len(t, sessions, 1)
			require.Equal(t, bob.ID, sessions[0].UserID)
			_, err = tx.GetSessionByUser(alice.ID)
			require.ErrorIs(t, err, auctionerrors.ErrNotFound)
			return nil
		}))
	})
}

func TestMemoryRepo_ListAuctionsFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, site := newSeededRepo(t)
	alice := createUser(t, repo, site.ID, "alice")
	bob := createUser(t, repo, site.ID, "bob")
	now := time.Now()

	past := createAuction(t, repo, site.ID, alice.ID, now.Add(-time.Hour))
	future := createAuction(t, repo, site.ID, bob.ID, now.Add(time.Hour))
	require.NoError(t, repo.Update(ctx, site.ID, func(tx Tx) error {
		a, err := tx.GetAuction(past.ID)
		if err != nil {
			return err
		}
		a.WinnerID = &bob.ID
		return tx.UpdateAuction(&a)
	}))

	tests := []struct {
		name   string
		filter AuctionFilter
		want   []int64
	}{
		{name: "all", filter: AuctionFilter{}, want: []int64{past.ID, future.ID}},
		{name: "by_seller", filter: AuctionFilter{SellerID: &alice.ID}, want: []int64{past.ID}},
		{name: "by_winner", filter: AuctionFilter{WinnerID: &bob.ID}, want: []int64{past.ID}},
		{name: "not_ended", filter: AuctionFilter{EndingAfter: &now}, want: []int64{future.ID}},
		{name: "no_winner_match", filter: AuctionFilter{WinnerID: &alice.ID}, want: []int64{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, repo.View(ctx, site.ID, func(tx Tx) error {
				auctions, err := tx.ListAuctions(tc.filter)
				require.NoError(t, err)
				ids := make([]int64, 0, len(auctions))
				for _, a := range auctions {
					ids = append(ids, a.ID)
				}
				require.Equal(t, tc.want, ids)
				return nil
			}))
		})
	}
}

func TestMemoryRepo_DeleteSite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, site := newSeededRepo(t)
	user := createUser(t, repo, site.ID, "alice")

	err := repo.Update(ctx, site.ID, func(tx Tx) error { return tx.DeleteSite() })
	require.ErrorIs(t, err, auctionerrors.ErrInvalidState)

	require.NoError(t, repo.Update(ctx, site.ID, func(tx Tx) error {
		if err := tx.DeleteUser(user.ID); err != nil {
			return err
		}
		return tx.DeleteSite()
	}))

	err = repo.View(ctx, site.ID, func(Tx) error { return nil })
	require.ErrorIs(t, err, auctionerrors.ErrNotFound)

	again := model.Site{Name: "site"}
	require.NoError(t, repo.CreateSite(ctx, &again))
	require.NotEqual(t, site.ID, again.ID)
}

func TestMemoryRepo_ConcurrentUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, site := newSeededRepo(t)
	seller := createUser(t, repo, site.ID, "seller")
	auction := createAuction(t, repo, site.ID, seller.ID, time.Now().Add(time.Hour))

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Update(ctx, site.ID, func(tx Tx) error {
				a, err := tx.GetAuction(auction.ID)
				if err != nil {
					return err
				}
				a.ActualPrice = a.ActualPrice.Add(decimal.NewFromInt(1))
				return tx.UpdateAuction(&a)
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.NoError(t, repo.View(ctx, site.ID, func(tx Tx) error {
		a, err := tx.GetAuction(auction.ID)
		require.NoError(t, err)
		require.True(t, a.ActualPrice.Equal(decimal.NewFromInt(10+workers)))
		require.Equal(t, int64(1+workers), a.Version)
		return nil
	}))
}

func TestRetryingStore_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	conflict := fmt.Errorf("update auction 1: %w", auctionerrors.ErrConcurrencyConflict)

	tests := []struct {
		name      string
		mockSetup func(m *MockStore)
		wantErr   error
	}{
		{
			name: "succeeds_after_conflicts",
			mockSetup: func(m *MockStore) {
				gomock.InOrder(
					m.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).Return(conflict),
					m.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).Return(conflict),
					m.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).Return(nil),
				)
			},
		},
		{
			name: "gives_up_after_max_retries",
			mockSetup: func(m *MockStore) {
				m.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).Return(conflict).Times(4)
			},
			wantErr: auctionerrors.ErrStoreUnavailable,
		},
		{
			name: "deleted_target_not_retried",
			mockSetup: func(m *MockStore) {
				m.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).Return(auctionerrors.ErrTargetDeleted)
			},
			wantErr: auctionerrors.ErrTargetDeleted,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := NewMockStore(ctrl)
			tc.mockSetup(mockStore)

			store := WithRetry(mockStore, 3)
			store.base = time.Microsecond
			err := store.Update(ctx, 1, func(Tx) error { return nil })
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("view_passes_through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := NewMockStore(ctrl)
		mockStore.EXPECT().View(gomock.Any(), int64(1), gomock.Any()).Return(conflict)

		err := WithRetry(mockStore, 3).View(ctx, 1, func(Tx) error { return nil })
		require.ErrorIs(t, err, auctionerrors.ErrConcurrencyConflict)
	})
}

func TestTranslateError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "record_not_found", in: gorm.ErrRecordNotFound, want: auctionerrors.ErrNotFound},
		{name: "unique_violation", in: &pgconn.PgError{Code: "23505"}, want: auctionerrors.ErrUniquenessConflict},
		{name: "serialization_failure", in: &pgconn.PgError{Code: "40001"}, want: auctionerrors.ErrConcurrencyConflict},
		{name: "deadlock", in: &pgconn.PgError{Code: "40P01"}, want: auctionerrors.ErrConcurrencyConflict},
		{name: "lock_not_available", in: &pgconn.PgError{Code: "55P03"}, want: auctionerrors.ErrConcurrencyConflict},
		{name: "foreign_key_race", in: &pgconn.PgError{Code: "23503"}, want: auctionerrors.ErrConcurrencyConflict},
		{name: "connection_failure", in: &pgconn.PgError{Code: "08006"}, want: auctionerrors.ErrStoreUnavailable},
		{name: "deadline", in: context.DeadlineExceeded, want: auctionerrors.ErrStoreUnavailable},
		{name: "unknown", in: errors.New("boom"), want: auctionerrors.ErrStoreUnavailable},
		{name: "known_sentinel_kept", in: auctionerrors.ErrTargetDeleted, want: auctionerrors.ErrTargetDeleted},
		{name: "caller_error_kept", in: auctionerrors.ErrInvalidState, want: auctionerrors.ErrInvalidState},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, translateError(tc.in), tc.want)
		})
	}

	require.NoError(t, translateError(nil))
}

func TestSessionInsertError(t *testing.T) {
	t.Parallel()

	duplicate := &pgconn.PgError{Code: "23505", ConstraintName: "idx_sessions_user_id"}

	t.Run("duplicate_session_is_a_conflict", func(t *testing.T) {
		err := sessionInsertError(duplicate)
		require.ErrorIs(t, err, auctionerrors.ErrConcurrencyConflict)
		require.NotErrorIs(t, err, auctionerrors.ErrUniquenessConflict)
		require.NotErrorIs(t, auctionerrors.FromStore(err, "session"), auctionerrors.ErrNameConflict)
	})

	t.Run("other_errors_translate_as_usual", func(t *testing.T) {
		require.ErrorIs(t, sessionInsertError(&pgconn.PgError{Code: "08006"}), auctionerrors.ErrStoreUnavailable)
		require.ErrorIs(t, sessionInsertError(&pgconn.PgError{Code: "23503"}), auctionerrors.ErrConcurrencyConflict)
		require.NoError(t, sessionInsertError(nil))
	})

	t.Run("racing_login_is_replayed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := NewMockStore(ctrl)
		gomock.InOrder(
			mockStore.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).
				Return(fmt.Errorf("create session for user 3: %w", sessionInsertError(duplicate))),
			mockStore.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).Return(nil),
		)

		require.NoError(t, WithRetry(mockStore, 3).Update(context.Background(), 1, func(Tx) error { return nil }))
	})
}

func TestMissedWriteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		remaining int64
		want      error
	}{
		{name: "row_deleted", remaining: 0, want: auctionerrors.ErrTargetDeleted},
		{name: "stale_version", remaining: 1, want: auctionerrors.ErrConcurrencyConflict},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := missedWriteError(tc.remaining)
			require.ErrorIs(t, err, tc.want)

			// deleted targets surface to callers, conflicts are retried and never do
			if tc.want == auctionerrors.ErrTargetDeleted {
				require.ErrorIs(t, auctionerrors.FromStore(err, "auction"), auctionerrors.ErrInvalidState)
			}
		})
	}
}
