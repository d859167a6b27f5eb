package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EntryKind discriminates the Entry tagged union.
type EntryKind int

const (
	// EntryName marks an entry holding a single taxon name.
	EntryName EntryKind = iota + 1
	// EntryGroup marks an entry holding a nested Result.
	EntryGroup
)

// Entry is one element of a Result: a taxon name or a nested group.
type Entry struct {
	Kind  EntryKind
	Name  TaxonName
	Group Result
}

// Result is the output of expanding a Tree: an ordered, arbitrarily nested list of names.
// It encodes to JSON as nested arrays of strings.
type Result []Entry

// Name builds a name entry.
func Name(name string) Entry {
	return Entry{Kind: EntryName, Name: TaxonName(name)}
}

// Group builds a nested group entry.
func Group(entries ...Entry) Entry {
	if entries == nil {
		entries = Result{}
	}
	return Entry{Kind: EntryGroup, Group: entries}
}

// Names builds a flat Result from plain names.
func Names(names ...string) Result {
	r := make(Result, 0, len(names))
	for _, n := range names {
		r = append(r, Name(n))
	}
	return r
}

// Flatten returns every name in the result in depth-first order.
func (r Result) Flatten() []TaxonName {
	var out []TaxonName
	for _, e := range r {
		switch e.Kind {
		case EntryName:
			out = append(out, e.Name)
		case EntryGroup:
			out = append(out, e.Group.Flatten()...)
		}
	}
	return out
}

// String renders the result in bracket form, e.g. "[Nematoda, [Tardigrada, Coleoptera]]".
func (r Result) String() string {
	var sb strings.Builder
	r.write(&sb)
	return sb.String()
}

func (r Result) write(sb *strings.Builder) {
	sb.WriteByte('[')
	for i, e := range r {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch e.Kind {
		case EntryName:
			sb.WriteString(string(e.Name))
		case EntryGroup:
			e.Group.write(sb)
		}
	}
	sb.WriteByte(']')
}

// MarshalJSON encodes a name entry as a string and a group as an array.
func (e Entry) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EntryName:
		return json.Marshal(string(e.Name))
	case EntryGroup:
		if e.Group == nil {
			return []byte("[]"), nil
		}
		return json.Marshal([]Entry(e.Group))
	default:
		return nil, fmt.Errorf("cannot encode entry of kind %d", e.Kind)
	}
}

// UnmarshalJSON accepts either a string (name) or an array (group).
func (e *Entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty result entry")
	}
	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*e = Name(name)
		return nil
	case '[':
		var group Result
		if err := json.Unmarshal(data, &group); err != nil {
			return err
		}
		*e = Group(group...)
		return nil
	default:
		return fmt.Errorf("result entry must be a string or an array, got %s", data)
	}
}
