// Package catalog owns the local SQLite component database: schema
// migrations, the read-only query surface used by search, and the
// ingestor that rebuilds the database from the public parts mirror.
//
// The database has two tables. components holds one row per part with
// its parametric attributes serialized as JSON, queryable through
// json_extract. prices holds the catalog quantity/price ladder keyed by
// part identifier.
//
// Two SQLite drivers are supported behind build tags: the default pure
// Go driver needs no C toolchain, while the sqlite_cgo tag selects the
// C-backed driver for faster scans over multi-million-row catalogs.
package catalog
