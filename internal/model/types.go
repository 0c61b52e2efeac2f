package model

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is everything fetched in one poll cycle.
type Snapshot struct {
	ID        uuid.UUID        // Primary key, generated per cycle
	TakenAt   time.Time        // Cycle start (UTC)
	Symbols   []OutlookSymbol  // Community outlook per symbol
	General   *OutlookGeneral  // Community-wide statistics, nil if the outlook fetch failed
	Countries []OutlookCountry // By-country outlook for configured symbols
	DailyGain []DailyGain      // Daily gain for configured accounts
}

// Empty reports whether the snapshot carries no data at all.
func (s *Snapshot) Empty() bool {
	return len(s.Symbols) == 0 && s.General == nil && len(s.Countries) == 0 && len(s.DailyGain) == 0
}

// OutlookSymbol is community sentiment for one symbol.
type OutlookSymbol struct {
	Symbol          string  // e.g. "EURUSD"
	ShortPercentage float64 // Share of volume that is short
	LongPercentage  float64 // Share of volume that is long
	ShortVolume     float64 // Lots short
	LongVolume      float64 // Lots long
	ShortPositions  int64   // Open short positions
	LongPositions   int64   // Open long positions
	TotalPositions  int64   // Open positions
	AvgShortPrice   float64 // Average short entry
	AvgLongPrice    float64 // Average long entry
}

// OutlookGeneral holds community-wide statistics. Money figures are kept as
// the preformatted strings the API returns.
type OutlookGeneral struct {
	DemoAccountsPercentage  float64
	RealAccountsPercentage  float64
	ProfitablePercentage    float64
	NonProfitablePercentage float64
	FundsWon                string
	FundsLost               string
	AverageDeposit          string
	AverageAccountProfit    string
	AverageAccountLoss      string
	TotalFunds              string
}

// OutlookCountry is sentiment for one symbol among one country's traders.
type OutlookCountry struct {
	Symbol         string  // Symbol the breakdown was requested for
	CountryCode    string  // ISO code, e.g. "FR"
	CountryName    string  // e.g. "FRANCE"
	LongVolume     float64 // Lots long
	ShortVolume    float64 // Lots short
	LongPositions  int64   // Open long positions
	ShortPositions int64   // Open short positions
}

// DailyGain is an account's gain for one day.
type DailyGain struct {
	AccountID int64     // Myfxbook account id
	Day       time.Time // Midnight UTC of the day
	Value     float64   // Gain in percent
	Profit    float64   // Profit in account currency
}
