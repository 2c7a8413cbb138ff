package logic

import "errors"

var (
	ErrMissingVault    = errors.New("vault_address and network_id are required")
	ErrInvalidAddress  = errors.New("vault address must be a 0x-prefixed 20-byte hex address")
	ErrInvalidRange    = errors.New("end date must be strictly after start date")
	ErrNoPrices        = errors.New("no share price points for this period")
	ErrMissingCurator  = errors.New("curator is required")
	ErrCuratorNotFound = errors.New("no curator matches this value")
	ErrMissingTarget   = errors.New("network and address are required")
	// ErrUpstream marks failures of the proxied upstream page.
	ErrUpstream = errors.New("unable to load the upstream vault page")
)
