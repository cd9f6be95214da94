package shazam

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"soundtrace/models"
)

func TestCreateAddress_PinnedValue(t *testing.T) {
	anchor := models.Peak{Time: 0, Freq: complex(300, 0)}
	target := models.Peak{Time: 1.25, Freq: complex(301, 0)}

	got := createAddress(anchor, target)
	want := uint32((300 << 23) | (301 << 14) | 1250)

	assert.Equal(t, want, got)
}

func TestAddress_RoundTrips(t *testing.T) {
	anchor := models.Peak{Time: 0, Freq: complex(511, 7)}
	target := models.Peak{Time: 16.0, Freq: complex(42, -3)}

	addr := createAddress(anchor, target)
	anchorBin, targetBin, deltaMs := decodeAddress(addr)

	assert.Equal(t, uint32(511), anchorBin)
	assert.Equal(t, uint32(42), targetBin)
	assert.Equal(t, uint32(16000), deltaMs)
}
