package core

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func bidAt(id string, price string, qty int64, t time.Time) Bid {
	return Bid{ID: id, Price: decimal.RequireFromString(price), Quantity: qty, SubmittedAt: t}
}

var orderingEpoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestOrderBids_PriceDescending(t *testing.T) {
	bids := []Bid{
		bidAt("bid1", "10", 30, orderingEpoch),
		bidAt("bid2", "12", 60, orderingEpoch.Add(time.Second)),
		bidAt("bid3", "11", 50, orderingEpoch.Add(2*time.Second)),
	}

	ordered := OrderBids(bids)

	check.Equal(t, 3, len(ordered))
	check.Equal(t, "bid2", ordered[0].ID)
	check.Equal(t, "bid3", ordered[1].ID)
	check.Equal(t, "bid1", ordered[2].ID)

	// Input is untouched.
	check.Equal(t, "bid1", bids[0].ID)
}

func TestOrderBids_EqualPriceEarlierTimeFirst(t *testing.T) {
	bids := []Bid{
		bidAt("late", "5", 6, orderingEpoch.Add(time.Minute)),
		bidAt("early", "5", 6, orderingEpoch),
	}

	ordered := OrderBids(bids)

	check.Equal(t, "early", ordered[0].ID)
	check.Equal(t, "late", ordered[1].ID)
}

func TestOrderBids_EqualPriceAndTimeIsStable(t *testing.T) {
	bids := []Bid{
		bidAt("first", "5", 1, orderingEpoch),
		bidAt("second", "5", 1, orderingEpoch),
		bidAt("third", "5", 1, orderingEpoch),
	}

	ordered := OrderBids(bids)

	check.Equal(t, "first", ordered[0].ID)
	check.Equal(t, "second", ordered[1].ID)
	check.Equal(t, "third", ordered[2].ID)
}

func TestOrderBids_PropertyNonIncreasingPriceNonDecreasingTime(t *testing.T) {
	bids := []Bid{
		bidAt("a", "3.25", 10, orderingEpoch.Add(4*time.Second)),
		bidAt("b", "3.25", 10, orderingEpoch.Add(1*time.Second)),
		bidAt("c", "7", 10, orderingEpoch.Add(9*time.Second)),
		bidAt("d", "1.5", 10, orderingEpoch),
		bidAt("e", "7", 10, orderingEpoch.Add(2*time.Second)),
		bidAt("f", "3.25", 10, orderingEpoch.Add(3*time.Second)),
	}

	ordered := OrderBids(bids)

	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		check.True(t, prev.Price.GreaterThanOrEqual(cur.Price))
		if prev.Price.Equal(cur.Price) {
			check.True(t, !cur.SubmittedAt.Before(prev.SubmittedAt))
		}
	}
}

func TestOrderBids_Empty(t *testing.T) {
	ordered := OrderBids(nil)
	check.Equal(t, 0, len(ordered))
}
