package watcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeMask_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		mask uint32
		want EventKind
	}{
		{"access", 0x0001, KindAccess},
		{"modify", 0x0002, KindModify},
		{"attrib", 0x0004, KindAttrib},
		{"close write", 0x0008, KindCloseWrite},
		{"close nowrite", 0x0010, KindCloseNoWrite},
		{"open", 0x0020, KindOpen},
		{"moved from", 0x0040, KindMovedFrom},
		{"moved to", 0x0080, KindMovedTo},
		{"create", 0x0100, KindCreate},
		{"delete", 0x0200, KindDelete},
		{"delete self", 0x0400, KindDeleteSelf},
		{"move self", 0x0800, KindMoveSelf},
		{"unmount", 0x2000, KindUnmount},
		{"overflow", 0x4000, KindOverflow},
		{"ignored", 0x8000, KindIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeMask(tt.mask))
		})
	}
}

func TestDecodeMask_UnrecognizedPatterns(t *testing.T) {
	// Combined bits and directory-flagged masks only match by exact value,
	// so they all fall through to Unknown.
	for _, mask := range []uint32{
		0,
		0x0001 | 0x0002,
		0x40000000 | 0x0100, // IN_ISDIR|IN_CREATE
		0x1000,
		0xFFFFFFFF,
	} {
		assert.Equal(t, KindUnknown, DecodeMask(mask), "mask %#x", mask)
	}
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "Create", KindCreate.String())
	assert.Equal(t, "Modify", KindModify.String())
	assert.Equal(t, "CloseNoWrite", KindCloseNoWrite.String())
	assert.Equal(t, "Unknown", KindUnknown.String())
	assert.Equal(t, "Unknown", EventKind(0x12345).String())
}
