// Package poller implements the snapshot poller.
//
// Each cycle the poller:
//   - Fetches the community outlook
//   - Fetches the by-country outlook for each configured symbol
//   - Fetches the recent daily gain for each configured account
//   - Hands the combined snapshot to a Store
//
// All fetches share one myfxbook client, so a cycle logs in at most once.
package poller
