package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auction-site/internal/auctionerrors"
	model "auction-site/internal/models"
	_ "auction-site/internal/repository/migrations"
	"auction-site/utils"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DefaultTimeout bounds every store call so a hung database surfaces as
// ErrStoreUnavailable instead of blocking the caller.
const DefaultTimeout = 5 * time.Second

// GormRepo is a PostgreSQL implementation of Store.
// Rows read inside Update are locked FOR UPDATE, and auction and session
// writes are version-checked on top of that.
type GormRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGormRepo wraps an open GORM handle
func NewGormRepo(db *gorm.DB, timeout time.Duration) *GormRepo {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GormRepo{db: db, timeout: timeout}
}

// OpenPostgres connects to dsn and verifies the connection
func OpenPostgres(ctx context.Context, dsn string, timeout time.Duration) (*GormRepo, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w: %w", auctionerrors.ErrStoreUnavailable, err)
	}

	repo := NewGormRepo(db, timeout)
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w: %w", auctionerrors.ErrStoreUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w: %w", auctionerrors.ErrStoreUnavailable, err)
	}
	return repo, nil
}

// Migrate applies the registered schema migrations to the database at dsn
func Migrate(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, nil)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, res := range results {
		utils.Info("migration applied", map[string]any{
			"version":  res.Source.Version,
			"duration": res.Duration.String(),
		})
	}
	return nil
}

// Close releases the underlying connection pool
func (r *GormRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *GormRepo) CreateSite(ctx context.Context, site *model.Site) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(site).Error; err != nil {
		return fmt.Errorf("create site %s: %w", site.Name, translateError(err))
	}
	return nil
}

func (r *GormRepo) GetSiteByName(ctx context.Context, name string) (model.Site, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var site model.Site
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&site).Error; err != nil {
		return model.Site{}, fmt.Errorf("get site %s: %w", name, translateError(err))
	}
	return site, nil
}

func (r *GormRepo) ListSites(ctx context.Context) ([]model.Site, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var sites []model.Site
	if err := r.db.WithContext(ctx).Order("id").Find(&sites).Error; err != nil {
		return nil, fmt.Errorf("list sites: %w", translateError(err))
	}
	return sites, nil
}

func (r *GormRepo) Update(ctx context.Context, siteID int64, fn func(tx Tx) error) error {
	return r.transaction(ctx, siteID, true, fn)
}

func (r *GormRepo) View(ctx context.Context, siteID int64, fn func(tx Tx) error) error {
	return r.transaction(ctx, siteID, false, fn)
}

func (r *GormRepo) transaction(ctx context.Context, siteID int64, writable bool, fn func(tx Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := &sql.TxOptions{ReadOnly: !writable}
	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		query := db
		if writable {
			// writers of one site queue on its row
			query = db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
		}
		var site model.Site
		if err := query.First(&site, siteID).Error; err != nil {
			return fmt.Errorf("site %d: %w", siteID, translateError(err))
		}
		return fn(&gormTx{db: db, site: site, writable: writable})
	}, opts)
	return translateError(err)
}

// gormTx implements Tx over an open SQL transaction
type gormTx struct {
	db       *gorm.DB
	site     model.Site
	writable bool
}

// locked returns a query that takes row locks when the transaction writes
func (tx *gormTx) locked() *gorm.DB {
	if tx.writable {
		return tx.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	return tx.db
}

func (tx *gormTx) Site() model.Site {
	return tx.site
}

func (tx *gormTx) DeleteSite() error {
	for _, m := range []any{&model.User{}, &model.Session{}, &model.Auction{}} {
		var n int64
		if err := tx.db.Model(m).Where("site_id = ?", tx.site.ID).Count(&n).Error; err != nil {
			return fmt.Errorf("delete site %d: %w", tx.site.ID, translateError(err))
		}
		if n > 0 {
			return fmt.Errorf("delete site %d: site still has records: %w", tx.site.ID, auctionerrors.ErrInvalidState)
		}
	}

	res := tx.db.Delete(&model.Site{}, tx.site.ID)
	if res.Error != nil {
		return fmt.Errorf("delete site %d: %w", tx.site.ID, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete site %d: %w", tx.site.ID, auctionerrors.ErrTargetDeleted)
	}
	return nil
}

func (tx *gormTx) GetUser(username string) (model.User, error) {
	var user model.User
	err := tx.db.Where("site_id = ? AND username = ?", tx.site.ID, username).First(&user).Error
	if err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w", username, translateError(err))
	}
	return user, nil
}

func (tx *gormTx) GetUserByID(id int64) (model.User, error) {
	var user model.User
	err := tx.db.Where("site_id = ? AND id = ?", tx.site.ID, id).First(&user).Error
	if err != nil {
		return model.User{}, fmt.Errorf("get user %d: %w", id, translateError(err))
	}
	return user, nil
}

func (tx *gormTx) ListUsers() ([]model.User, error) {
	var users []model.User
	if err := tx.db.Where("site_id = ?", tx.site.ID).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", translateError(err))
	}
	return users, nil
}

func (tx *gormTx) CreateUser(user *model.User) error {
	user.SiteID = tx.site.ID
	if err := tx.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user %s: %w", user.Username, translateError(err))
	}
	return nil
}

func (tx *gormTx) DeleteUser(id int64) error {
	res := tx.db.Where("site_id = ? AND id = ?", tx.site.ID, id).Delete(&model.User{})
	if res.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete user %d: %w", id, auctionerrors.ErrNotFound)
	}
	return nil
}

func (tx *gormTx) GetSession(token string) (model.Session, error) {
	var session model.Session
	err := tx.locked().Where("site_id = ? AND token = ?", tx.site.ID, token).First(&session).Error
	if err != nil {
		return model.Session{}, fmt.Errorf("get session: %w", translateError(err))
	}
	return session, nil
}

func (tx *gormTx) GetSessionByUser(userID int64) (model.Session, error) {
	var session model.Session
	err := tx.locked().Where("site_id = ? AND user_id = ?", tx.site.ID, userID).First(&session).Error
	if err != nil {
		return model.Session{}, fmt.Errorf("get session of user %d: %w", userID, translateError(err))
	}
	return session, nil
}

func (tx *gormTx) ListSessions() ([]model.Session, error) {
	var sessions []model.Session
	if err := tx.db.Where("site_id = ?", tx.site.ID).Order("user_id").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", translateError(err))
	}
	return sessions, nil
}

func (tx *gormTx) CreateSession(session *model.Session) error {
	session.SiteID = tx.site.ID
	session.Version = 1
	if err := tx.db.Create(session).Error; err != nil {
		return fmt.Errorf("create session for user %d: %w", session.UserID, sessionInsertError(err))
	}
	return nil
}

// sessionInsertError reports a duplicate session as a concurrency conflict:
// a user holds at most one session, so a clash means another login for the
// same user committed first and the caller must replay against it
func sessionInsertError(err error) error {
	err = translateError(err)
	if errors.Is(err, auctionerrors.ErrUniquenessConflict) {
		return fmt.Errorf("%w: session inserted concurrently", auctionerrors.ErrConcurrencyConflict)
	}
	return err
}

func (tx *gormTx) UpdateSession(session *model.Session) error {
	res := tx.db.Model(&model.Session{}).
		Where("site_id = ? AND token = ? AND version = ?", tx.site.ID, session.Token, session.Version).
		Updates(map[string]any{
			"valid_until": session.ValidUntil,
			"version":     session.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("update session: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update session: %w", tx.missedWrite(&model.Session{}, "token = ?", session.Token))
	}
	session.Version++
	return nil
}

func (tx *gormTx) DeleteSession(token string) error {
	res := tx.db.Where("site_id = ? AND token = ?", tx.site.ID, token).Delete(&model.Session{})
	if res.Error != nil {
		return fmt.Errorf("delete session: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete session: %w", auctionerrors.ErrNotFound)
	}
	return nil
}

func (tx *gormTx) DeleteExpiredSessions(now time.Time) (int, error) {
	res := tx.db.Where("site_id = ? AND valid_until <= ?", tx.site.ID, now).Delete(&model.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", translateError(res.Error))
	}
	return int(res.RowsAffected), nil
}

func (tx *gormTx) GetAuction(id int64) (model.Auction, error) {
	var auction model.Auction
	err := tx.locked().Where("site_id = ? AND id = ?", tx.site.ID, id).First(&auction).Error
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %d: %w", id, translateError(err))
	}
	return auction, nil
}

func (tx *gormTx) ListAuctions(filter AuctionFilter) ([]model.Auction, error) {
	q := tx.db.Where("site_id = ?", tx.site.ID)
	if filter.SellerID != nil {
		q = q.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.WinnerID != nil {
		q = q.Where("winner_id = ?", *filter.WinnerID)
	}
	if filter.EndingAfter != nil {
		q = q.Where("ends_on >= ?", *filter.EndingAfter)
	}

	var auctions []model.Auction
	if err := q.Order("id").Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("list auctions: %w", translateError(err))
	}
	return auctions, nil
}

func (tx *gormTx) CreateAuction(auction *model.Auction) error {
	auction.SiteID = tx.site.ID
	auction.Version = 1
	if err := tx.db.Create(auction).Error; err != nil {
		return fmt.Errorf("create auction: %w", translateError(err))
	}
	return nil
}

func (tx *gormTx) UpdateAuction(auction *model.Auction) error {
	res := tx.db.Model(&model.Auction{}).
		Where("site_id = ? AND id = ? AND version = ?", tx.site.ID, auction.ID, auction.Version).
		Updates(map[string]any{
			"winner_id":    auction.WinnerID,
			"actual_price": auction.ActualPrice,
			"top_amount":   auction.TopAmount,
			"version":      auction.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("update auction %d: %w", auction.ID, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update auction %d: %w", auction.ID, tx.missedWrite(&model.Auction{}, "id = ?", auction.ID))
	}
	auction.Version++
	return nil
}

func (tx *gormTx) DeleteAuction(id int64) error {
	res := tx.db.Where("site_id = ? AND id = ?", tx.site.ID, id).Delete(&model.Auction{})
	if res.Error != nil {
		return fmt.Errorf("delete auction %d: %w", id, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete auction %d: %w", id, auctionerrors.ErrNotFound)
	}
	return nil
}

// missedWrite explains a version-checked write that touched no row: the row
// is either gone or was changed by someone else since it was read
func (tx *gormTx) missedWrite(m any, cond string, arg any) error {
	var n int64
	if err := tx.db.Model(m).Where("site_id = ?", tx.site.ID).Where(cond, arg).Count(&n).Error; err != nil {
		return translateError(err)
	}
	return missedWriteError(n)
}

// missedWriteError classifies a missed write by how many rows still match
func missedWriteError(remaining int64) error {
	if remaining == 0 {
		return auctionerrors.ErrTargetDeleted
	}
	return auctionerrors.ErrConcurrencyConflict
}

// SQLSTATE codes the store reacts to
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// translateError maps driver and GORM errors onto store sentinels.
// Errors that already carry a known sentinel pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if isStoreError(err) || auctionerrors.IsCallerError(err) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", auctionerrors.ErrNotFound, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", auctionerrors.ErrStoreUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", auctionerrors.ErrUniquenessConflict, pgErr.ConstraintName)
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable, pgForeignKeyViolation:
			return fmt.Errorf("%w: %w", auctionerrors.ErrConcurrencyConflict, err)
		}
	}
	return fmt.Errorf("%w: %w", auctionerrors.ErrStoreUnavailable, err)
}

func isStoreError(err error) bool {
	return errors.Is(err, auctionerrors.ErrNotFound) ||
		errors.Is(err, auctionerrors.ErrConcurrencyConflict) ||
		errors.Is(err, auctionerrors.ErrUniquenessConflict) ||
		errors.Is(err, auctionerrors.ErrTargetDeleted) ||
		errors.Is(err, auctionerrors.ErrStoreUnavailable)
}
