package syncdb

import "errors"

// ErrItemNotFound is returned when no queue item matches the lookup.
var ErrItemNotFound = errors.New("queue item not found")
