package session

import "errors"

var (
	// ErrNoStore is returned when an Engine is constructed without a store.
	ErrNoStore = errors.New("no session store provided")
	// ErrClosed is returned when an operation is attempted on a closed engine.
	ErrClosed = errors.New("session engine already closed")
	// ErrReadSession is returned when loading a session payload from the store fails.
	ErrReadSession = errors.New("failed to read session")
	// ErrSaveSession is returned when saving a session payload to the store fails.
	ErrSaveSession = errors.New("failed to save session")
	// ErrDeleteSession is returned when deleting a session from the store fails.
	ErrDeleteSession = errors.New("failed to delete session")
	// ErrBeginTx is returned when the store cannot start the locking transaction.
	ErrBeginTx = errors.New("failed to begin session transaction")
	// ErrCommitTx is returned when the store cannot commit the locking transaction.
	ErrCommitTx = errors.New("failed to commit session transaction")
)
