package migrations

import (
	"context"
	"database/sql"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

type Site struct {
	ID                       int64           `gorm:"primaryKey;autoIncrement"`
	Name                     string          `gorm:"type:varchar(128);uniqueIndex;not null"`
	Timezone                 int             `gorm:"not null"`
	SessionExpirationSeconds int             `gorm:"not null;check:session_expiration_seconds > 0"`
	MinimumBidIncrement      decimal.Decimal `gorm:"type:numeric(20,4);not null;check:minimum_bid_increment > 0"`
}

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	SiteID       int64  `gorm:"not null;uniqueIndex:idx_users_site_username"`
	Username     string `gorm:"type:varchar(64);not null;uniqueIndex:idx_users_site_username"`
	PasswordHash string `gorm:"type:text;not null"`
	Site         Site   `gorm:"foreignKey:SiteID;references:ID;constraint:OnDelete:RESTRICT"`
}

type Session struct {
	Token      string    `gorm:"type:varchar(64);primaryKey"`
	SiteID     int64     `gorm:"not null;index"`
	UserID     int64     `gorm:"not null;uniqueIndex"`
	ValidUntil time.Time `gorm:"type:timestamptz;not null;index"`
	Version    int64     `gorm:"not null;default:1"`
	Site       Site      `gorm:"foreignKey:SiteID;references:ID;constraint:OnDelete:RESTRICT"`
	User       User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:RESTRICT"`
}

type Auction struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	SiteID        int64           `gorm:"not null;index"`
	SellerID      int64           `gorm:"not null;index"`
	WinnerID      *int64          `gorm:"index"`
	Description   string          `gorm:"type:text;not null"`
	EndsOn        time.Time       `gorm:"type:timestamptz;not null"`
	StartingPrice decimal.Decimal `gorm:"type:numeric(20,4);not null;check:starting_price >= 0"`
	ActualPrice   decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	TopAmount     decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Version       int64           `gorm:"not null;default:1"`
	Site          Site            `gorm:"foreignKey:SiteID;references:ID;constraint:OnDelete:RESTRICT"`
	Seller        User            `gorm:"foreignKey:SellerID;references:ID;constraint:OnDelete:RESTRICT"`
	Winner        *User           `gorm:"foreignKey:WinnerID;references:ID;constraint:OnDelete:RESTRICT"`
}

func open(tx *sql.Tx) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
}

func upInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := open(tx)
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).AutoMigrate(
		&Site{},
		&User{},
		&Session{},
		&Auction{},
	); err != nil {
		return err
	}

	m := gormDB.WithContext(ctx).Migrator()
	constraints := []struct {
		model any
		name  string
	}{
		{&User{}, "Site"},
		{&Session{}, "Site"},
		{&Session{}, "User"},
		{&Auction{}, "Site"},
		{&Auction{}, "Seller"},
		{&Auction{}, "Winner"},
	}
	for _, c := range constraints {
		if err := m.CreateConstraint(c.model, c.name); err != nil {
			return err
		}
	}

	return nil
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := open(tx)
	if err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Migrator().DropTable(
		&Auction{},
		&Session{},
		&User{},
		&Site{},
	)
}
