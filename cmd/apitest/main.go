// apitest logs in to the live Myfxbook API and prints a summary of each
// endpoint's response.
// Usage: go run ./cmd/apitest --account 1018059 --symbol eurusd
//
// Required environment variables (may be set in the env file):
//
//	MYFXBOOK_EMAIL    - Account email
//	MYFXBOOK_PASSWORD - Account password
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/myfxbook-data/internal/config"
	"github.com/rickgao/myfxbook-data/internal/version"
	"github.com/rickgao/myfxbook-data/myfxbook"
)

func main() {
	envPath := flag.String("env", ".env", "optional env file")
	baseURL := flag.String("base-url", myfxbook.DefaultBaseURL, "API base URL")
	account := flag.Int64("account", 0, "account id for account endpoints (0 uses the first own account)")
	symbol := flag.String("symbol", "eurusd", "symbol for the by-country outlook")
	days := flag.Int("days", 7, "days of history for ranged endpoints")
	verbose := flag.Bool("verbose", false, "log every request")
	flag.Parse()

	if err := config.LoadEnvFile(*envPath); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	logger.Info("starting apitest", "version", version.String(), "base_url", *baseURL)

	email, password := os.Getenv("MYFXBOOK_EMAIL"), os.Getenv("MYFXBOOK_PASSWORD")
	if email == "" || password == "" {
		logger.Error("MYFXBOOK_EMAIL and MYFXBOOK_PASSWORD must be set")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	client := myfxbook.NewClient(email, password,
		myfxbook.WithBaseURL(*baseURL),
		myfxbook.WithTimeout(30*time.Second),
		myfxbook.WithLogger(logger),
	)

	if _, err := client.Login(ctx); err != nil {
		logger.Error("login failed", "error", err)
		os.Exit(1)
	}
	failures := 0
	report := func(name string, err error, attrs ...any) {
		if err != nil {
			failures++
			logger.Error(name, "error", err)
			return
		}
		logger.Info(name, attrs...)
	}

	accounts, err := client.GetMyAccounts(ctx)
	if err == nil {
		report("get-my-accounts", nil, "accounts", len(accounts.Accounts))
		if *account == 0 && len(accounts.Accounts) > 0 {
			*account = accounts.Accounts[0].ID
		}
	} else {
		report("get-my-accounts", err)
	}

	watched, err := client.GetWatchedAccounts(ctx)
	if err == nil {
		report("get-watched-accounts", nil, "accounts", len(watched.Accounts))
	} else {
		report("get-watched-accounts", err)
	}

	outlook, err := client.GetCommunityOutlook(ctx)
	if err == nil {
		report("get-community-outlook", nil,
			"symbols", len(outlook.Symbols),
			"total_funds", outlook.General.TotalFunds,
		)
	} else {
		report("get-community-outlook", err)
	}

	byCountry, err := client.GetCommunityOutlookByCountry(ctx, *symbol)
	if err == nil {
		report("get-community-outlook-by-country", nil, "symbol", *symbol, "countries", len(byCountry.Countries))
	} else {
		report("get-community-outlook-by-country", err)
	}

	if *account == 0 {
		logger.Warn("no account available, skipping account endpoints")
	} else {
		end := time.Now().UTC()
		start := myfxbook.FormatDate(end.AddDate(0, 0, -(*days - 1)))
		stop := myfxbook.FormatDate(end)

		orders, err := client.GetOpenOrders(ctx, *account)
		if err == nil {
			report("get-open-orders", nil, "account", *account, "orders", len(orders.OpenOrders))
		} else {
			report("get-open-orders", err)
		}

		trades, err := client.GetOpenTrades(ctx, *account)
		if err == nil {
			report("get-open-trades", nil, "account", *account, "trades", len(trades.OpenTrades))
		} else {
			report("get-open-trades", err)
		}

		history, err := client.GetHistory(ctx, *account)
		if err == nil {
			report("get-history", nil, "account", *account, "trades", len(history.History))
		} else {
			report("get-history", err)
		}

		daily, err := client.GetDailyGain(ctx, *account, start, stop)
		if err == nil {
			report("get-daily-gain", nil, "account", *account, "days", len(daily.DailyGain))
		} else {
			report("get-daily-gain", err)
		}

		gain, err := client.GetGain(ctx, *account, start, stop)
		if err == nil {
			report("get-gain", nil, "account", *account, "value", gain.Value)
		} else {
			report("get-gain", err)
		}

		data, err := client.GetDailyData(ctx, *account, start, stop)
		if err == nil {
			report("get-data-daily", nil, "account", *account, "days", len(data.DataDaily))
		} else {
			report("get-data-daily", err)
		}
	}

	if _, err := client.Logout(context.Background()); err != nil {
		logger.Warn("logout failed", "error", err)
	}

	if failures > 0 {
		logger.Error("apitest finished with failures", "failures", failures)
		os.Exit(1)
	}
	logger.Info("apitest finished")
}
