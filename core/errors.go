package core

import "errors"

// Ledger error taxonomy. AlreadyTaken and NotFound matter to callers, who
// render specific messages for them; Storage is the catch-all for anything
// else the database reports.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyTaken = errors.New("workshop already taken")
	ErrStorage      = errors.New("storage error")
)
