package sessiontransport

import "errors"

var (
	// ErrNoStoreFactory is returned when the transport is constructed
	// without a store factory.
	ErrNoStoreFactory = errors.New("no session store factory provided")
	// ErrMintID is returned when a fresh session identifier cannot be
	// generated, which indicates a configuration or entropy-source problem.
	ErrMintID = errors.New("failed to mint session id")
	// ErrEnded is returned when a request handle is used after End.
	ErrEnded = errors.New("session request already ended")
)
