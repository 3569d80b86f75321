package rankingdb

import "errors"

// ErrResultNotFound is returned when no aggregate result exists for the
// requested shooter.
var ErrResultNotFound = errors.New("match result not found")
