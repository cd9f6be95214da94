package shazam

import "soundtrace/models"

// Fingerprint pairs each peak with the up-to-TargetZoneSize peaks
// that follow it, producing an address -> Couple map. Within one
// call, a colliding address is overwritten by the later pair (last
// writer wins): the earlier couple is dropped whatever its anchor
// time, since the address encodes only the (frequency pair, delta)
// combination and not where in the track the anchor sits.
func Fingerprint(peaks []models.Peak, songID uint32, cfg FingerprintConfig) map[uint32]models.Couple {
	fingerprints := make(map[uint32]models.Couple)

	for i, anchor := range peaks {
		maxJ := i + cfg.TargetZoneSize
		if maxJ > len(peaks)-1 {
			maxJ = len(peaks) - 1
		}
		for j := i + 1; j <= maxJ; j++ {
			target := peaks[j]
			address := createAddress(anchor, target)
			fingerprints[address] = models.Couple{
				AnchorTimeMs: uint32(anchor.Time * 1000),
				SongID:       songID,
			}
		}
	}

	return fingerprints
}
