package product

import (
	"fmt"

	"github.com/couchcryptid/precip-radial-etl/internal/wire"
)

// Scan is one elevation sweep: a sequence of radials covering the full
// azimuth circle at a single beam tilt.
type Scan struct {
	Radials []Radial
}

const (
	scanRecord = "scan"

	// 720 radials covers the circle at half-degree spacing.
	numRadialsMin int32 = 0
	numRadialsMax int32 = 720
)

// DecodeScan decodes a radial count followed by that many back-to-back radial
// structures, threading each radial's remainder into the next. The buffer
// remaining after the last radial is returned for the enclosing parser.
func DecodeScan(buf []byte) (Scan, []byte, error) {
	numRadials, rest, err := wire.TakeInt32(buf)
	if err != nil {
		return Scan{}, nil, fmt.Errorf("%s num radials: %w", scanRecord, err)
	}
	if err := checkRangeInclusive(numRadialsMin, numRadialsMax, numRadials, "num radials", scanRecord); err != nil {
		return Scan{}, nil, err
	}

	radials := make([]Radial, 0, numRadials)
	for i := int32(0); i < numRadials; i++ {
		var r Radial
		r, rest, err = DecodeRadial(rest)
		if err != nil {
			return Scan{}, nil, fmt.Errorf("%s radial %d: %w", scanRecord, i, err)
		}
		radials = append(radials, r)
	}

	return Scan{Radials: radials}, rest, nil
}
