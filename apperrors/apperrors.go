// Package apperrors holds the sentinel error values shared by the
// fingerprinting pipeline and the storage layer, so both can be
// checked with errors.Is without creating an import cycle between
// them.
package apperrors

import "github.com/mdobak/go-xerrors"

var (
	// ErrDecodeFailure: the decoder returned empty samples or hit an
	// unsupported encoding. Fatal for the current operation.
	ErrDecodeFailure = xerrors.New("decode failure")

	// ErrInvalidParameter: a DSP precondition was violated (non
	// power-of-two FFT window, nonpositive sample rate, downsample
	// target above the source rate). Fatal and programmer-visible.
	ErrInvalidParameter = xerrors.New("invalid parameter")

	// ErrDuplicateKey: a song with this (title, artist) key is
	// already registered.
	ErrDuplicateKey = xerrors.New("duplicate key")

	// ErrStoreUnavailable: the backing store could not be reached or
	// a write failed.
	ErrStoreUnavailable = xerrors.New("store unavailable")

	// ErrEmptyResult: spectrogram or peak extraction produced nothing
	// for a legitimate but too-short input.
	ErrEmptyResult = xerrors.New("empty result")
)
