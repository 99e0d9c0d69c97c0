package core

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

var validationEpoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestValidateBids(t *testing.T) {
	tests := []struct {
		name    string
		bids    []Bid
		wantErr bool
	}{
		{
			name: "valid set",
			bids: []Bid{
				bidAt("bid1", "12", 60, validationEpoch),
				bidAt("bid2", "11", 50, validationEpoch),
			},
			wantErr: false,
		},
		{
			name:    "empty set",
			bids:    nil,
			wantErr: false,
		},
		{
			name:    "zero quantity",
			bids:    []Bid{bidAt("bid1", "12", 0, validationEpoch)},
			wantErr: true,
		},
		{
			name:    "negative quantity",
			bids:    []Bid{bidAt("bid1", "12", -5, validationEpoch)},
			wantErr: true,
		},
		{
			name: "duplicate id",
			bids: []Bid{
				bidAt("bid1", "12", 60, validationEpoch),
				bidAt("bid1", "11", 50, validationEpoch),
			},
			wantErr: true,
		},
		{
			name:    "empty id",
			bids:    []Bid{bidAt("", "12", 60, validationEpoch)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBids(tt.bids)
			if tt.wantErr {
				check.NotNil(t, err)
			} else {
				check.Nil(t, err)
			}
		})
	}
}

func TestValidateParameters(t *testing.T) {
	tests := []struct {
		name     string
		params   AuctionParameters
		bidCount int
		wantErr  bool
	}{
		{"valid", params(100, "10"), 3, false},
		{"zero size no bids", params(0, "10"), 0, false},
		{"zero size with bids", params(0, "10"), 3, true},
		{"negative size", params(-1, "10"), 0, true},
		{"negative floor", params(100, "-0.01"), 0, true},
		{"zero floor", params(100, "0"), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParameters(tt.params, tt.bidCount)
			if tt.wantErr {
				check.NotNil(t, err)
			} else {
				check.Nil(t, err)
			}
		})
	}
}

func TestValidateSupply(t *testing.T) {
	p := params(100, "10")

	check.Nil(t, ValidateSupply(NewFungibleSupply(decimal.NewFromInt(100)), p))
	check.NotNil(t, ValidateSupply(NewFungibleSupply(decimal.NewFromInt(99)), p))
	check.NotNil(t, ValidateSupply(nil, p))
}
