package node

import (
	"sort"
	"time"

	"github.com/calmh/xdr"

	"github.com/SublimeIbanez/Overseer/internal/errors"
)

// Wire layout for a node, XDR-encoded:
//
//	uint32  variant tag (0 = file, 1 = directory)
//	string  name
//	string  absolute path
//	uint64  last-modified, unix nanoseconds (0 = never read)
//	bool    expanded                       (directory only)
//	uint32  child count + children         (directory only)
//	uint32  attribute count + key/value pairs
//
// Attributes are written in sorted key order so equal trees encode to equal
// bytes. Decoding performs no filesystem validation; a decoded tree may
// describe a stale filesystem state.

const (
	tagFile      uint32 = 0
	tagDirectory uint32 = 1

	maxStringLen = 8 << 10
	maxChildren  = 1 << 20
	maxAttrs     = 1 << 16
)

// XDRSize returns the encoded size of the directory subtree.
func (d *Directory) XDRSize() int {
	s := 4 + xdrStringSize(d.name) + xdrStringSize(d.path) + 8 + 4 + 4
	for _, c := range d.children {
		switch n := c.(type) {
		case *Directory:
			s += n.XDRSize()
		case *File:
			s += n.XDRSize()
		}
	}
	return s + attrsSize(d.attrs)
}

// MarshalXDR returns the XDR encoding of the directory subtree, or nil if
// the subtree cannot be encoded.
func (d *Directory) MarshalXDR() []byte {
	m := &xdr.Marshaller{Data: make([]byte, d.XDRSize())}
	if err := d.MarshalXDRInto(m); err != nil {
		return nil
	}
	return m.Data
}

// MarshalXDRInto encodes the directory subtree into m, which must have room
// for XDRSize bytes.
func (d *Directory) MarshalXDRInto(m *xdr.Marshaller) error {
	m.MarshalUint32(tagDirectory)
	m.MarshalString(d.name)
	m.MarshalString(d.path)
	m.MarshalUint64(encodeTime(d.modTime))
	m.MarshalBool(d.expanded)
	m.MarshalUint32(uint32(len(d.children)))
	for _, c := range d.children {
		switch n := c.(type) {
		case *Directory:
			if err := n.MarshalXDRInto(m); err != nil {
				return err
			}
		case *File:
			if err := n.MarshalXDRInto(m); err != nil {
				return err
			}
		}
	}
	marshalAttrs(m, d.attrs)
	return m.Error
}

// UnmarshalXDR decodes a directory subtree from bs.
func (d *Directory) UnmarshalXDR(bs []byte) error {
	return d.UnmarshalXDRFrom(&xdr.Unmarshaller{Data: bs})
}

// UnmarshalXDRFrom decodes a directory subtree from u, leaving any trailing
// data in place for the caller.
func (d *Directory) UnmarshalXDRFrom(u *xdr.Unmarshaller) error {
	tag := u.UnmarshalUint32()
	if err := u.Error; err != nil {
		return errors.Decode("snapshot tree truncated", err)
	}
	if tag != tagDirectory {
		return errors.Decode("snapshot tree does not start with a directory", nil)
	}
	return d.unmarshalFields(u)
}

// unmarshalFields fills in the directory from u. The variant tag has
// already been consumed by the caller.
func (d *Directory) unmarshalFields(u *xdr.Unmarshaller) error {
	d.name = u.UnmarshalStringMax(maxStringLen)
	d.path = u.UnmarshalStringMax(maxStringLen)
	d.modTime = decodeTime(u.UnmarshalUint64())
	d.expanded = u.UnmarshalBool()

	n := u.UnmarshalUint32()
	if err := u.Error; err != nil {
		return errors.Decode("snapshot tree truncated", err)
	}
	if n > maxChildren {
		return errors.Decode("snapshot child count out of range", nil)
	}

	d.children = nil
	if n > 0 {
		d.children = make([]Node, 0, n)
	}
	for range n {
		tag := u.UnmarshalUint32()
		if err := u.Error; err != nil {
			return errors.Decode("snapshot tree truncated", err)
		}
		switch tag {
		case tagDirectory:
			child := &Directory{}
			if err := child.unmarshalFields(u); err != nil {
				return err
			}
			d.children = append(d.children, child)
		case tagFile:
			child := &File{}
			if err := child.unmarshalFields(u); err != nil {
				return err
			}
			d.children = append(d.children, child)
		default:
			return errors.Decode("snapshot contains an unknown node variant", nil)
		}
	}

	attrs, err := unmarshalAttrs(u)
	if err != nil {
		return err
	}
	d.attrs = attrs

	return nil
}

// XDRSize returns the encoded size of the file node.
func (f *File) XDRSize() int {
	return 4 + xdrStringSize(f.name) + xdrStringSize(f.path) + 8 + attrsSize(f.attrs)
}

// MarshalXDRInto encodes the file node into m.
func (f *File) MarshalXDRInto(m *xdr.Marshaller) error {
	m.MarshalUint32(tagFile)
	m.MarshalString(f.name)
	m.MarshalString(f.path)
	m.MarshalUint64(encodeTime(f.modTime))
	marshalAttrs(m, f.attrs)
	return m.Error
}

func (f *File) unmarshalFields(u *xdr.Unmarshaller) error {
	f.name = u.UnmarshalStringMax(maxStringLen)
	f.path = u.UnmarshalStringMax(maxStringLen)
	f.modTime = decodeTime(u.UnmarshalUint64())

	attrs, err := unmarshalAttrs(u)
	if err != nil {
		return err
	}
	f.attrs = attrs

	if err := u.Error; err != nil {
		return errors.Decode("snapshot tree truncated", err)
	}
	return nil
}

func attrsSize(attrs map[string]string) int {
	s := 4
	for k, v := range attrs {
		s += xdrStringSize(k) + xdrStringSize(v)
	}
	return s
}

func marshalAttrs(m *xdr.Marshaller, attrs map[string]string) {
	m.MarshalUint32(uint32(len(attrs)))
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.MarshalString(k)
		m.MarshalString(attrs[k])
	}
}

func unmarshalAttrs(u *xdr.Unmarshaller) (map[string]string, error) {
	n := u.UnmarshalUint32()
	if err := u.Error; err != nil {
		return nil, errors.Decode("snapshot tree truncated", err)
	}
	if n == 0 {
		return nil, nil
	}
	if n > maxAttrs {
		return nil, errors.Decode("snapshot attribute count out of range", nil)
	}

	attrs := make(map[string]string, n)
	for range n {
		k := u.UnmarshalStringMax(maxStringLen)
		v := u.UnmarshalStringMax(maxStringLen)
		if err := u.Error; err != nil {
			return nil, errors.Decode("snapshot tree truncated", err)
		}
		attrs[k] = v
	}
	return attrs, nil
}

func xdrStringSize(s string) int {
	return 4 + len(s) + xdr.Padding(len(s))
}

func encodeTime(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(t.UnixNano())
}

func decodeTime(v uint64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(0, int64(v))
}
