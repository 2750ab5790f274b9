package fleet

import "errors"

// ErrServerNotFound is returned by lookups for ids the mirror does not hold.
var ErrServerNotFound = errors.New("server not found")
