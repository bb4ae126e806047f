package watcher

import "time"

// EventKind is the typed classification of a native filesystem change
// notification. Values mirror the inotify mask bits so a raw record maps
// to its kind by exact value match; the fallback backend translates its
// own notifications into the same set.
type EventKind uint32

const (
	// KindUnknown is any bit pattern outside the known set. Decoding to
	// Unknown is the one intentionally non-fatal path in the watch loop.
	KindUnknown EventKind = 0x0000

	KindAccess       EventKind = 0x0001
	KindModify       EventKind = 0x0002
	KindAttrib       EventKind = 0x0004
	KindCloseWrite   EventKind = 0x0008
	KindCloseNoWrite EventKind = 0x0010
	KindOpen         EventKind = 0x0020
	KindMovedFrom    EventKind = 0x0040
	KindMovedTo      EventKind = 0x0080
	KindCreate       EventKind = 0x0100
	KindDelete       EventKind = 0x0200
	KindDeleteSelf   EventKind = 0x0400
	KindMoveSelf     EventKind = 0x0800
	KindUnmount      EventKind = 0x2000
	KindOverflow     EventKind = 0x4000
	KindIgnored      EventKind = 0x8000
)

// DecodeMask maps a raw event bitmask to its kind. Only exact matches
// against the known flag values decode; combined or unrecognized patterns
// yield KindUnknown rather than failing.
func DecodeMask(mask uint32) EventKind {
	switch EventKind(mask) {
	case KindAccess, KindModify, KindAttrib, KindCloseWrite, KindCloseNoWrite,
		KindOpen, KindMovedFrom, KindMovedTo, KindCreate, KindDelete,
		KindDeleteSelf, KindMoveSelf, KindUnmount, KindOverflow, KindIgnored:
		return EventKind(mask)
	default:
		return KindUnknown
	}
}

// String returns the kind name as written to the change log.
func (k EventKind) String() string {
	switch k {
	case KindAccess:
		return "Access"
	case KindModify:
		return "Modify"
	case KindAttrib:
		return "Attrib"
	case KindCloseWrite:
		return "CloseWrite"
	case KindCloseNoWrite:
		return "CloseNoWrite"
	case KindOpen:
		return "Open"
	case KindMovedFrom:
		return "MovedFrom"
	case KindMovedTo:
		return "MovedTo"
	case KindCreate:
		return "Create"
	case KindDelete:
		return "Delete"
	case KindDeleteSelf:
		return "DeleteSelf"
	case KindMoveSelf:
		return "MoveSelf"
	case KindUnmount:
		return "Unmount"
	case KindOverflow:
		return "Overflow"
	case KindIgnored:
		return "Ignored"
	default:
		return "Unknown"
	}
}

// Event is one decoded filesystem change observation.
type Event struct {
	// Kind is the typed classification of the raw record.
	Kind EventKind
	// Name is the bare entry name carried by the record. May be empty for
	// events about the watched directory itself.
	Name string
	// Path is the watched directory joined with Name.
	Path string
	// Time is when the record was decoded.
	Time time.Time
}
