package notify

import (
	"strconv"
	"sync/atomic"
)

// HandlerID identifies a registered handler so it can be removed later.
// The zero value never identifies a handler.
type HandlerID uint64

// String returns the decimal form of the id.
func (id HandlerID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// globalIDCounter is the source of unique handler IDs.
var globalIDCounter uint64

// nextID returns the next unique ID. IDs are monotonically increasing and
// never reused.
func nextID() HandlerID {
	return HandlerID(atomic.AddUint64(&globalIDCounter, 1))
}
