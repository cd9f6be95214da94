package shazam

import "soundtrace/models"

// createAddress packs an (anchor, target) peak pair into a 32-bit
// address: anchorFreqBin (9 bits) | targetFreqBin (9 bits) | deltaMs
// (14 bits). Both "frequency bin" fields are int(re(freq)) — the real
// part of the STFT coefficient truncated to an integer, NOT the band
// winner's bin index k*. This is a quirk carried from the source: the
// original almost certainly meant to use the bin index, but changing
// it now would break compatibility with any existing fingerprint
// index built against this scheme, so it is reproduced bit-for-bit.
// Out-of-range values are not rejected: each field is masked to its
// bit width, so a deltaMs of 2^14 ms (~16s) or more, or a frequency
// value outside 9 bits (including a negative one), is silently
// truncated. Callers must keep target-zone size small enough that
// deltaMs and the frequency values fit their fields.
func createAddress(anchor, target models.Peak) uint32 {
	anchorFreqBin := uint32(int32(real(anchor.Freq)))
	targetFreqBin := uint32(int32(real(target.Freq)))
	deltaMs := uint32((target.Time - anchor.Time) * 1000)

	const freqMask = (1 << models.AnchorFreqBits) - 1
	const deltaMask = (1 << models.DeltaMsBits) - 1

	anchorBits := anchorFreqBin & freqMask
	targetBits := targetFreqBin & freqMask
	deltaBits := deltaMs & deltaMask

	return (anchorBits << (models.TargetFreqBits + models.DeltaMsBits)) |
		(targetBits << models.DeltaMsBits) |
		deltaBits
}

// decodeAddress is the inverse of createAddress, used by tests to
// check the address round-trips for valid field ranges.
func decodeAddress(address uint32) (anchorFreqBin, targetFreqBin, deltaMs uint32) {
	const freqMask = (1 << models.AnchorFreqBits) - 1
	const deltaMask = (1 << models.DeltaMsBits) - 1

	deltaMs = address & deltaMask
	targetFreqBin = (address >> models.DeltaMsBits) & freqMask
	anchorFreqBin = (address >> (models.TargetFreqBits + models.DeltaMsBits)) & freqMask
	return
}
