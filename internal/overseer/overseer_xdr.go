package overseer

import (
	"time"

	"github.com/calmh/xdr"

	"github.com/SublimeIbanez/Overseer/internal/errors"
	"github.com/SublimeIbanez/Overseer/internal/node"
)

// Sidecar layout, XDR-encoded:
//
//	string  snapshot id
//	uint64  saved-at, unix nanoseconds
//	string  root name
//	string  root path
//	bool    ignore hidden
//	uint32  ignore count + names
//	tree    (see node wire layout)
//
// The layout is unversioned; a schema change shows up as a decode error.

const (
	maxStringLen = 8 << 10
	maxIgnores   = 1 << 16
)

// MarshalXDR returns the XDR encoding of the aggregate, or nil if the
// aggregate cannot be encoded.
func (o *Overseer) MarshalXDR() []byte {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.marshalXDR()
}

// marshalXDR encodes without locking; the caller holds o.mu.
func (o *Overseer) marshalXDR() []byte {
	m := &xdr.Marshaller{Data: make([]byte, o.xdrSize())}
	m.MarshalString(o.snapshotID)
	m.MarshalUint64(uint64(o.savedAt.UnixNano()))
	m.MarshalString(o.rootName)
	m.MarshalString(o.rootPath)
	m.MarshalBool(o.ignoreHidden)
	m.MarshalUint32(uint32(len(o.ignoreList)))
	for _, name := range o.ignoreList {
		m.MarshalString(name)
	}
	if err := o.tree.MarshalXDRInto(m); err != nil {
		return nil
	}
	if m.Error != nil {
		return nil
	}
	return m.Data
}

func (o *Overseer) xdrSize() int {
	s := xdrStringSize(o.snapshotID) + 8 +
		xdrStringSize(o.rootName) + xdrStringSize(o.rootPath) + 4 + 4
	s += xdr.SizeOfSlice(o.ignoreList)
	return s + o.tree.XDRSize()
}

// UnmarshalXDR decodes an aggregate from bs.
func (o *Overseer) UnmarshalXDR(bs []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	u := &xdr.Unmarshaller{Data: bs}

	o.snapshotID = u.UnmarshalStringMax(maxStringLen)
	o.savedAt = time.Unix(0, int64(u.UnmarshalUint64()))
	o.rootName = u.UnmarshalStringMax(maxStringLen)
	o.rootPath = u.UnmarshalStringMax(maxStringLen)
	o.ignoreHidden = u.UnmarshalBool()

	n := u.UnmarshalUint32()
	if err := u.Error; err != nil {
		return errors.Decode("snapshot header truncated", err)
	}
	if n > maxIgnores {
		return errors.Decode("snapshot ignore count out of range", nil)
	}

	o.ignoreList = nil
	for range n {
		name := u.UnmarshalStringMax(maxStringLen)
		if err := u.Error; err != nil {
			return errors.Decode("snapshot header truncated", err)
		}
		o.ignoreList = append(o.ignoreList, name)
	}

	tree := &node.Directory{}
	if err := tree.UnmarshalXDRFrom(u); err != nil {
		return err
	}
	o.tree = tree

	return nil
}

func xdrStringSize(s string) int {
	return 4 + len(s) + xdr.Padding(len(s))
}
