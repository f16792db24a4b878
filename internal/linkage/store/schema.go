package store

import _ "embed"

// Schema creates the organization, regulation and join tables. Statements
// are idempotent.
//
//go:embed schema.sql
var Schema string
