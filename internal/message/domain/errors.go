package domain

import "errors"

var (
	// ErrConnectionNotFound aborts a sync pass: the user has no usable
	// connection for the requested provider.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrCredentialExpired aborts a sync pass: the access token is past its
	// lease and no refresh token is available.
	ErrCredentialExpired = errors.New("credential expired")

	// ErrDuplicateMessage is returned by the store when an insert hits the
	// (user, source, external_id) unique index. Callers treat it as
	// "already synced".
	ErrDuplicateMessage = errors.New("duplicate message")

	// ErrMessageNotFound covers lookups of ids not owned by the caller.
	ErrMessageNotFound = errors.New("message not found")
)
