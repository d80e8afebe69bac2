package bidding

import (
	model "auction-site/internal/models"

	"github.com/shopspring/decimal"
)

// Outcome is the result of arbitrating one bid
type Outcome int

const (
	OutcomeRejected Outcome = iota
	// OutcomeFirstBid: no bid was accepted before, the bidder becomes winner
	OutcomeFirstBid
	// OutcomeCeilingRaised: the current winner raised their ceiling
	OutcomeCeilingRaised
	// OutcomeOvertaken: the bidder beat the winner's ceiling and took over
	OutcomeOvertaken
	// OutcomeOutbid: the bidder pushed the price up but the winner holds
	OutcomeOutbid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeFirstBid:
		return "first_bid"
	case OutcomeCeilingRaised:
		return "ceiling_raised"
	case OutcomeOvertaken:
		return "overtaken"
	case OutcomeOutbid:
		return "outbid"
	default:
		return "unknown"
	}
}

// Accepted reports whether the bid changed the auction
func (o Outcome) Accepted() bool {
	return o != OutcomeRejected
}

// Decide applies proxy-bidding rules to an offer from bidderID and returns
// the auction as it must be written back. A rejected offer returns the
// auction untouched.
//
// TopAmount is the winner's secret ceiling; ActualPrice is what the winner
// would pay now. A challenger only moves the price, capped at the ceiling,
// unless the offer strictly exceeds the ceiling.
func Decide(a model.Auction, bidderID int64, offer, inc decimal.Decimal) (model.Auction, Outcome) {
	isWinner := a.HasWinner(bidderID)
	noBids := a.TopAmount.IsZero()

	switch {
	case offer.LessThan(a.StartingPrice):
		return a, OutcomeRejected
	case !offer.IsPositive():
		return a, OutcomeRejected
	case isWinner && offer.LessThan(a.TopAmount.Add(inc)):
		return a, OutcomeRejected
	case !isWinner && offer.LessThan(a.ActualPrice):
		return a, OutcomeRejected
	case !isWinner && !noBids && offer.LessThan(a.ActualPrice.Add(inc)):
		return a, OutcomeRejected
	}

	next := a
	switch {
	case noBids:
		next.TopAmount = offer
		next.WinnerID = &bidderID
		return next, OutcomeFirstBid
	case isWinner:
		next.TopAmount = offer
		return next, OutcomeCeilingRaised
	case offer.GreaterThan(a.TopAmount):
		next.ActualPrice = decimal.Min(offer, a.TopAmount.Add(inc))
		next.TopAmount = offer
		next.WinnerID = &bidderID
		return next, OutcomeOvertaken
	default:
		next.ActualPrice = decimal.Min(a.TopAmount, offer.Add(inc))
		return next, OutcomeOutbid
	}
}
