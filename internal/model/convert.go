package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/rickgao/myfxbook-data/myfxbook"
)

// dayLayout is the MM/dd/yyyy form daily series dates arrive in.
const dayLayout = "01/02/2006"

// FromOutlook converts a community outlook reply.
func FromOutlook(resp *myfxbook.OutlookResponse) ([]OutlookSymbol, *OutlookGeneral) {
	symbols := make([]OutlookSymbol, len(resp.Symbols))
	for i, s := range resp.Symbols {
		symbols[i] = OutlookSymbol{
			Symbol:          strings.ToUpper(s.Name),
			ShortPercentage: s.ShortPercentage,
			LongPercentage:  s.LongPercentage,
			ShortVolume:     s.ShortVolume,
			LongVolume:      s.LongVolume,
			ShortPositions:  s.ShortPositions,
			LongPositions:   s.LongPositions,
			TotalPositions:  s.TotalPositions,
			AvgShortPrice:   s.AvgShortPrice,
			AvgLongPrice:    s.AvgLongPrice,
		}
	}

	g := resp.General
	general := &OutlookGeneral{
		DemoAccountsPercentage:  g.DemoAccountsPercentage,
		RealAccountsPercentage:  g.RealAccountsPercentage,
		ProfitablePercentage:    g.ProfitablePercentage,
		NonProfitablePercentage: g.NonProfitablePercentage,
		FundsWon:                g.FundsWon,
		FundsLost:               g.FundsLost,
		AverageDeposit:          g.AverageDeposit,
		AverageAccountProfit:    g.AverageAccountProfit,
		AverageAccountLoss:      g.AverageAccountLoss,
		TotalFunds:              g.TotalFunds,
	}

	return symbols, general
}

// FromOutlookByCountry converts a by-country reply for symbol.
func FromOutlookByCountry(symbol string, resp *myfxbook.OutlookByCountryResponse) []OutlookCountry {
	rows := make([]OutlookCountry, len(resp.Countries))
	for i, c := range resp.Countries {
		rows[i] = OutlookCountry{
			Symbol:         strings.ToUpper(symbol),
			CountryCode:    c.Code,
			CountryName:    c.Name,
			LongVolume:     c.LongVolume,
			ShortVolume:    c.ShortVolume,
			LongPositions:  c.LongPositions,
			ShortPositions: c.ShortPositions,
		}
	}
	return rows
}

// FromDailyGain converts a daily gain reply for accountID. Dates may be
// MM/dd/yyyy or yyyy-MM-dd.
func FromDailyGain(accountID int64, resp *myfxbook.DailyGainResponse) ([]DailyGain, error) {
	rows := make([]DailyGain, 0, len(resp.DailyGain))
	for _, d := range resp.DailyGain {
		day, err := parseDay(d.Date)
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", accountID, err)
		}
		rows = append(rows, DailyGain{
			AccountID: accountID,
			Day:       day,
			Value:     d.Value,
			Profit:    d.Profit,
		})
	}
	return rows, nil
}

func parseDay(s string) (time.Time, error) {
	for _, layout := range []string{dayLayout, myfxbook.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse day %q", s)
}
