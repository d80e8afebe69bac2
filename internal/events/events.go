// Package events publishes auction lifecycle notifications.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
)

// StreamName is the JetStream stream that captures every auction subject
const StreamName = "AUCTIONS"

// Event kinds, the last token of a subject
const (
	KindCreated = "created"
	KindBid     = "bid"
	KindDeleted = "deleted"
)

// Subject returns the subject an event of kind on siteID is published to
func Subject(siteID int64, kind string) string {
	return fmt.Sprintf("auction.%d.%s", siteID, kind)
}

// AuctionCreated is published once an auction is committed
type AuctionCreated struct {
	SiteID        int64           `json:"site_id"`
	AuctionID     int64           `json:"auction_id"`
	SellerID      int64           `json:"seller_id"`
	Description   string          `json:"description"`
	EndsOn        time.Time       `json:"ends_on"`
	StartingPrice decimal.Decimal `json:"starting_price"`
}

// BidPlaced is published after an accepted bid. It carries the public price
// only, never the winner's ceiling.
type BidPlaced struct {
	SiteID      int64           `json:"site_id"`
	AuctionID   int64           `json:"auction_id"`
	Outcome     string          `json:"outcome"`
	ActualPrice decimal.Decimal `json:"actual_price"`
	WinnerID    *int64          `json:"winner_id,omitempty"`
}

// AuctionDeleted is published after an auction is removed
type AuctionDeleted struct {
	SiteID    int64 `json:"site_id"`
	AuctionID int64 `json:"auction_id"`
}

// Publisher delivers events. Publishing happens after commit, so a failure
// never undoes the state change.
type Publisher interface {
	Publish(ctx context.Context, subject string, v any) error
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

// NATS publishes events to a JetStream stream
type NATS struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewNATS connects to url and makes sure the auction stream exists
func NewNATS(url string, opts ...nats.Option) (*NATS, error) {
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}

	if _, err := js.StreamInfo(StreamName); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			nc.Close()
			return nil, err
		}
		if _, err := js.AddStream(&nats.StreamConfig{
			Name:     StreamName,
			Subjects: []string{"auction.>"},
		}); err != nil {
			nc.Close()
			return nil, err
		}
	}

	return &NATS{conn: nc, js: js}, nil
}

// Close drains the underlying connection
func (n *NATS) Close() {
	if n == nil {
		return
	}
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
	}
}

// Publish encodes v as JSON and publishes it to subject
func (n *NATS) Publish(ctx context.Context, subject string, v any) error {
	if n == nil {
		return errors.New("nil publisher")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	_, err = n.js.Publish(subject, data, nats.Context(ctx))
	return err
}

// Message is an event captured by Recorder
type Message struct {
	Subject string
	Payload any
}

// Recorder keeps published events in memory
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (r *Recorder) Publish(_ context.Context, subject string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.messages = append(r.messages, Message{Subject: subject, Payload: v})
	return nil
}

// Messages returns a copy of everything published so far
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
