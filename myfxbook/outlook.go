package myfxbook

import "context"

// GetCommunityOutlook fetches community sentiment for every symbol along with
// community-wide statistics.
func (c *Client) GetCommunityOutlook(ctx context.Context) (*OutlookResponse, error) {
	query, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}

	var resp OutlookResponse
	if err := c.call(ctx, endpointCommunityOutlook, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCommunityOutlookByCountry fetches sentiment for one symbol (e.g. "eurusd")
// broken down by trader country.
func (c *Client) GetCommunityOutlookByCountry(ctx context.Context, symbol string) (*OutlookByCountryResponse, error) {
	query, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	query = query.add("symbol", symbol)

	var resp OutlookByCountryResponse
	if err := c.call(ctx, endpointCommunityOutlookByCountry, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
