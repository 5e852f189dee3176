// Package journal turns the events of a listener tree into records and
// writes them as JSON lines to a file, an S3 object or any other Sink.
package journal

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/vango-dev/changetree/pkg/changetree"
)

// Record kinds.
const (
	KindProperty   = "property"
	KindCollection = "collection"
)

// Record is the wire form of one event.
type Record struct {
	ID       string    `json:"id"`
	Seq      uint64    `json:"seq"`
	Time     time.Time `json:"time"`
	Kind     string    `json:"kind"`
	Path     string    `json:"path,omitempty"`
	Property string    `json:"property,omitempty"`
	Action   string    `json:"action,omitempty"`
	Size     int       `json:"size,omitempty"`
	Added    []any     `json:"added,omitempty"`
	Removed  []any     `json:"removed,omitempty"`
}

// FromProperty builds the record of a property change.
func FromProperty(e changetree.PropertyChanged, at time.Time) Record {
	return Record{
		ID:       newID(),
		Time:     at,
		Kind:     KindProperty,
		Path:     e.FullPath,
		Property: e.PropertyName,
	}
}

// FromCollection builds the record of a collection change. Size is the
// collection length after the change.
func FromCollection(e changetree.CollectionChanged, at time.Time) Record {
	r := Record{
		ID:      newID(),
		Time:    at,
		Kind:    KindCollection,
		Action:  e.Change.Action.String(),
		Added:   e.Change.Added,
		Removed: e.Change.Removed,
	}
	if e.Collection != nil {
		r.Size = len(e.Collection.Items())
	}
	return r
}

// Marshal encodes r as one line of JSON without the trailing newline.
func Marshal(r Record) ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(r)
}

// Unmarshal decodes one line of JSON.
func Unmarshal(data []byte) (Record, error) {
	var r Record
	err := jsoniter.ConfigFastest.Unmarshal(data, &r)
	return r, err
}

// newID returns a time-ordered id, falling back to a random one.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
