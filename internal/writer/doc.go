// Package writer stores recorder snapshots in PostgreSQL.
//
// A snapshot is written in one transaction as a single pgx.Batch. Outlook
// rows are append-only (ON CONFLICT DO NOTHING); daily gain rows are
// upserted because the current day's figures change until it closes.
package writer
