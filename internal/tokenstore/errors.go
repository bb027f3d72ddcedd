package tokenstore

import "errors"

var (
	// ErrEmptyFilePath is returned when the file driver has no path configured.
	ErrEmptyFilePath = errors.New("token file path can not be empty")

	// ErrNilClient is returned when a backend is built without its client.
	ErrNilClient = errors.New("token backend client is nil")

	// ErrUnknownDriver is returned for an unsupported TokenStore.Driver setting.
	ErrUnknownDriver = errors.New("unknown token store driver")
)
