// Package database provides the PostgreSQL connection pool for the recorder
// and the schema it writes to.
//
// Tables:
//   - snapshots: one row per poll cycle
//   - outlook_symbols, outlook_general: community outlook per cycle
//   - outlook_countries: by-country outlook per cycle and symbol
//   - daily_gain: per-account daily gain, keyed by account and day
package database
