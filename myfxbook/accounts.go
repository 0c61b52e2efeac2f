package myfxbook

import (
	"context"
	"strconv"
)

// authed starts a parameter list with the session token, logging in first if
// needed.
func (c *Client) authed(ctx context.Context) (params, error) {
	session, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}
	return params{}.add("session", session), nil
}

// accountRange adds id, start and end to an authenticated parameter list.
func accountRange(query params, id int64, start, end string) params {
	return query.
		add("id", strconv.FormatInt(id, 10)).
		add("start", start).
		add("end", end)
}

// GetMyAccounts fetches the user's own trading accounts.
func (c *Client) GetMyAccounts(ctx context.Context) (*MyAccountsResponse, error) {
	query, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}

	var resp MyAccountsResponse
	if err := c.call(ctx, endpointMyAccounts, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetWatchedAccounts fetches the accounts on the user's watch list.
func (c *Client) GetWatchedAccounts(ctx context.Context) (*WatchedAccountsResponse, error) {
	query, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}

	var resp WatchedAccountsResponse
	if err := c.call(ctx, endpointWatchedAccounts, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetOpenOrders fetches pending orders for an account.
func (c *Client) GetOpenOrders(ctx context.Context, id int64) (*OpenOrdersResponse, error) {
	query, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	query = query.add("id", strconv.FormatInt(id, 10))

	var resp OpenOrdersResponse
	if err := c.call(ctx, endpointOpenOrders, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetOpenTrades fetches open trades for an account.
func (c *Client) GetOpenTrades(ctx context.Context, id int64) (*OpenTradesResponse, error) {
	query, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	query = query.add("id", strconv.FormatInt(id, 10))

	var resp OpenTradesResponse
	if err := c.call(ctx, endpointOpenTrades, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetHistory fetches closed trades for an account.
func (c *Client) GetHistory(ctx context.Context, id int64) (*HistoryResponse, error) {
	query, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	query = query.add("id", strconv.FormatInt(id, 10))

	var resp HistoryResponse
	if err := c.call(ctx, endpointHistory, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDailyGain fetches the per-day gain of an account between start and end
// (yyyy-MM-dd).
func (c *Client) GetDailyGain(ctx context.Context, id int64, start, end string) (*DailyGainResponse, error) {
	query, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}

	var resp DailyGainResponse
	if err := c.call(ctx, endpointDailyGain, accountRange(query, id, start, end), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetGain fetches the total gain of an account between start and end
// (yyyy-MM-dd).
func (c *Client) GetGain(ctx context.Context, id int64, start, end string) (*GainResponse, error) {
	query, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}

	var resp GainResponse
	if err := c.call(ctx, endpointGain, accountRange(query, id, start, end), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDailyData fetches end-of-day snapshots of an account between start and
// end (yyyy-MM-dd).
func (c *Client) GetDailyData(ctx context.Context, id int64, start, end string) (*DailyDataResponse, error) {
	query, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}

	var resp DailyDataResponse
	if err := c.call(ctx, endpointDailyData, accountRange(query, id, start, end), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
