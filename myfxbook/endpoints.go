package myfxbook

// Endpoint names, relative to the API root and without the .json suffix.
const (
	endpointLogin                     = "login"
	endpointLogout                    = "logout"
	endpointMyAccounts                = "get-my-accounts"
	endpointWatchedAccounts           = "get-watched-accounts"
	endpointOpenOrders                = "get-open-orders"
	endpointOpenTrades                = "get-open-trades"
	endpointHistory                   = "get-history"
	endpointDailyGain                 = "get-daily-gain"
	endpointGain                      = "get-gain"
	endpointCommunityOutlook          = "get-community-outlook"
	endpointCommunityOutlookByCountry = "get-community-outlook-by-country"
	endpointDailyData                 = "get-data-daily"
)
