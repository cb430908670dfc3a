//go:build sqlite_cgo
// +build sqlite_cgo

package catalog

// This file is compiled when building with CGO and the sqlite_cgo tag.
// It uses the C SQLite library for faster query execution on large
// catalogs.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "sqlite_cgo,sqlite_math_functions" ./...
//
// The sqlite_math_functions tag is required: match scoring uses LOG10,
// which the C library only ships when built with math functions enabled.
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
