package session

import "errors"

// ErrNilDependency is returned when the manager is built without config, backend or api.
var ErrNilDependency = errors.New("session manager: config, backend and api are required")
