package database

// schema is applied in order by EnsureSchema. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		snapshot_id UUID PRIMARY KEY,
		taken_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS outlook_symbols (
		snapshot_id      UUID NOT NULL REFERENCES snapshots (snapshot_id),
		symbol           TEXT NOT NULL,
		short_percentage DOUBLE PRECISION NOT NULL,
		long_percentage  DOUBLE PRECISION NOT NULL,
		short_volume     DOUBLE PRECISION NOT NULL,
		long_volume      DOUBLE PRECISION NOT NULL,
		short_positions  BIGINT NOT NULL,
		long_positions   BIGINT NOT NULL,
		total_positions  BIGINT NOT NULL,
		avg_short_price  DOUBLE PRECISION NOT NULL,
		avg_long_price   DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (snapshot_id, symbol)
	)`,
	`CREATE TABLE IF NOT EXISTS outlook_general (
		snapshot_id                UUID PRIMARY KEY REFERENCES snapshots (snapshot_id),
		demo_accounts_percentage   DOUBLE PRECISION NOT NULL,
		real_accounts_percentage   DOUBLE PRECISION NOT NULL,
		profitable_percentage      DOUBLE PRECISION NOT NULL,
		non_profitable_percentage  DOUBLE PRECISION NOT NULL,
		funds_won                  TEXT NOT NULL,
		funds_lost                 TEXT NOT NULL,
		average_deposit            TEXT NOT NULL,
		average_account_profit     TEXT NOT NULL,
		average_account_loss       TEXT NOT NULL,
		total_funds                TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS outlook_countries (
		snapshot_id     UUID NOT NULL REFERENCES snapshots (snapshot_id),
		symbol          TEXT NOT NULL,
		country_code    TEXT NOT NULL,
		country_name    TEXT NOT NULL,
		long_volume     DOUBLE PRECISION NOT NULL,
		short_volume    DOUBLE PRECISION NOT NULL,
		long_positions  BIGINT NOT NULL,
		short_positions BIGINT NOT NULL,
		PRIMARY KEY (snapshot_id, symbol, country_code)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_gain (
		account_id BIGINT NOT NULL,
		day        DATE NOT NULL,
		value      DOUBLE PRECISION NOT NULL,
		profit     DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (account_id, day)
	)`,
}
