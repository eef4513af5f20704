// Package postgres implements directory.Directory on PostgreSQL through a
// pgx pool, with statements built by squirrel.
//
// Set GOSESSION_TEST_POSTGRES_DSN to run the adapter suite against a live
// database; without it only the query builders are tested.
package postgres
