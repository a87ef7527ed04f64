package storage

import "errors"

// ErrCorruptData is returned by strict-mode stores when a backing unit holds
// content that cannot be parsed as a record list. Lenient stores never return
// it and treat such content as empty instead.
var ErrCorruptData = errors.New("corrupt stored data")
