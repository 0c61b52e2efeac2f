package myfxbook

import (
	"bytes"
	"encoding/json"
	"time"
)

// DateLayout is the yyyy-MM-dd form the API expects for start and end dates.
const DateLayout = "2006-01-02"

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// LoginResponse from login
type LoginResponse struct {
	Envelope
	Session string `json:"session"`
}

// MyAccountsResponse from get-my-accounts
type MyAccountsResponse struct {
	Envelope
	Accounts []TradingAccount `json:"accounts"`
}

// WatchedAccountsResponse from get-watched-accounts
type WatchedAccountsResponse struct {
	Envelope
	Accounts []WatchedAccount `json:"accounts"`
}

// OpenOrdersResponse from get-open-orders
type OpenOrdersResponse struct {
	Envelope
	OpenOrders []OpenOrder `json:"openOrders"`
}

// OpenTradesResponse from get-open-trades
type OpenTradesResponse struct {
	Envelope
	OpenTrades []Trade `json:"openTrades"`
}

// HistoryResponse from get-history
type HistoryResponse struct {
	Envelope
	History []Trade `json:"history"`
}

// DailyGainResponse from get-daily-gain
type DailyGainResponse struct {
	Envelope
	DailyGain Series[DayGain] `json:"dailyGain"`
}

// GainResponse from get-gain
type GainResponse struct {
	Envelope
	Value float64 `json:"value"`
}

// OutlookResponse from get-community-outlook
type OutlookResponse struct {
	Envelope
	Symbols []OutlookSymbol `json:"symbols"`
	General OutlookGeneral  `json:"general"`
}

// OutlookByCountryResponse from get-community-outlook-by-country
type OutlookByCountryResponse struct {
	Envelope
	Countries []OutlookCountry `json:"countries"`
}

// DailyDataResponse from get-data-daily
type DailyDataResponse struct {
	Envelope
	DataDaily Series[DailyData] `json:"dataDaily"`
}

// TradingAccount is one of the user's own accounts.
type TradingAccount struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	AccountID      int64   `json:"accountId"`
	Gain           float64 `json:"gain"`
	AbsGain        float64 `json:"absGain"`
	Daily          float64 `json:"daily"`
	Monthly        float64 `json:"monthly"`
	Withdrawals    float64 `json:"withdrawals"`
	Deposits       float64 `json:"deposits"`
	Interest       float64 `json:"interest"`
	Profit         float64 `json:"profit"`
	Balance        float64 `json:"balance"`
	Drawdown       float64 `json:"drawdown"`
	Equity         float64 `json:"equity"`
	EquityPercent  float64 `json:"equityPercent"`
	Demo           bool    `json:"demo"`
	LastUpdateDate string  `json:"lastUpdateDate"`
	CreationDate   string  `json:"creationDate"`
	FirstTradeDate string  `json:"firstTradeDate"`
	Tracking       int64   `json:"tracking"`
	Views          int64   `json:"views"`
	Commission     float64 `json:"commission"`
	Currency       string  `json:"currency"`
	ProfitFactor   float64 `json:"profitFactor"`
	Pips           float64 `json:"pips"`
	InvitationURL  string  `json:"invitationUrl"`
	Server         Server  `json:"server"`
}

// Server identifies the broker server an account trades on.
type Server struct {
	Name string `json:"name"`
}

// WatchedAccount is an account on the user's watch list.
type WatchedAccount struct {
	Name     string  `json:"name"`
	Gain     float64 `json:"gain"`
	Drawdown float64 `json:"drawdown"`
	Demo     bool    `json:"demo"`
	Change   float64 `json:"change"`
}

// Sizing is a position size. Value arrives as a quoted decimal.
type Sizing struct {
	Type  string      `json:"type"`
	Value json.Number `json:"value"`
}

// OpenOrder is a pending order.
type OpenOrder struct {
	OpenTime  string  `json:"openTime"`
	Symbol    string  `json:"symbol"`
	Action    string  `json:"action"`
	Sizing    Sizing  `json:"sizing"`
	OpenPrice float64 `json:"openPrice"`
	TP        float64 `json:"tp"`
	SL        float64 `json:"sl"`
	Comment   string  `json:"comment"`
}

// Trade is an open or closed trade. CloseTime and ClosePrice are only set in
// history.
type Trade struct {
	OpenOrder
	CloseTime  string  `json:"closeTime,omitempty"`
	ClosePrice float64 `json:"closePrice,omitempty"`
	Profit     float64 `json:"profit"`
	Pips       float64 `json:"pips"`
	Swap       float64 `json:"swap"`
	Magic      int64   `json:"magic"`
}

// DayGain is the gain for one day.
type DayGain struct {
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
	Profit float64 `json:"profit"`
}

// DailyData is an end-of-day account snapshot.
type DailyData struct {
	Date         string  `json:"date"`
	Balance      float64 `json:"balance"`
	Pips         float64 `json:"pips"`
	Lots         float64 `json:"lots"`
	FloatingPL   float64 `json:"floatingPL"`
	Profit       float64 `json:"profit"`
	GrowthEquity float64 `json:"growthEquity"`
	FloatingPips float64 `json:"floatingPips"`
}

// OutlookSymbol is community sentiment for one instrument.
type OutlookSymbol struct {
	Name            string  `json:"name"`
	ShortPercentage float64 `json:"shortPercentage"`
	LongPercentage  float64 `json:"longPercentage"`
	ShortVolume     float64 `json:"shortVolume"`
	LongVolume      float64 `json:"longVolume"`
	LongPositions   int64   `json:"longPositions"`
	ShortPositions  int64   `json:"shortPositions"`
	TotalPositions  int64   `json:"totalPositions"`
	AvgShortPrice   float64 `json:"avgShortPrice"`
	AvgLongPrice    float64 `json:"avgLongPrice"`
}

// OutlookGeneral holds community-wide statistics. Money figures arrive
// preformatted.
type OutlookGeneral struct {
	DemoAccountsPercentage  float64 `json:"demoAccountsPercentage"`
	RealAccountsPercentage  float64 `json:"realAccountsPercentage"`
	ProfitablePercentage    float64 `json:"profitablePercentage"`
	NonProfitablePercentage float64 `json:"nonProfitablePercentage"`
	FundsWon                string  `json:"fundsWon"`
	FundsLost               string  `json:"fundsLost"`
	AverageDeposit          string  `json:"averageDeposit"`
	AverageAccountProfit    string  `json:"averageAccountProfit"`
	AverageAccountLoss      string  `json:"averageAccountLoss"`
	TotalFunds              string  `json:"totalFunds"`
}

// OutlookCountry is sentiment for one symbol among traders of one country.
type OutlookCountry struct {
	Name           string  `json:"name"`
	Code           string  `json:"code"`
	LongVolume     float64 `json:"longVolume"`
	ShortVolume    float64 `json:"shortVolume"`
	LongPositions  int64   `json:"longPositions"`
	ShortPositions int64   `json:"shortPositions"`
}

// Series is a daily series. The service wraps each day in its own
// one-element array; a flat array is accepted as well.
type Series[T any] []T

func (s *Series[T]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}

	out := make(Series[T], 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '[' {
			var inner []T
			if err := json.Unmarshal(item, &inner); err != nil {
				return err
			}
			out = append(out, inner...)
			continue
		}

		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return err
		}
		out = append(out, v)
	}

	*s = out
	return nil
}
