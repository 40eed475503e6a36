// Package postgres provides the PostgreSQL-backed implementation of
// the store.KV contract. It depends on the pgx stdlib driver through
// database/sql, so it works with either a connection pool or an open
// transaction via the store.DBTX interface.
package postgres
