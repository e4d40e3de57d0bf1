// Package product decodes the binary radial structures carried by radar
// precipitation products. Decoding is strict: every scalar is validated
// against its physically legal range before a record is constructed, and any
// failure aborts the record with no partial result.
package product

import (
	"encoding/binary"
	"fmt"

	"github.com/couchcryptid/precip-radial-etl/internal/units"
	"github.com/couchcryptid/precip-radial-etl/internal/wire"
)

// Radial holds precipitation rates measured along one angular sweep of the
// radar beam. Bins are ordered by ascending distance from the radar.
type Radial struct {
	// Azimuth is the compass bearing along which this radial points.
	Azimuth units.Angle
	// Elevation is the angle the beam made with respect to horizontal.
	Elevation units.Angle
	// Width is the angular size of this radial.
	Width units.Angle
	// PrecipRates holds the measured rate for each distance bin.
	PrecipRates []units.Velocity
}

// Legal wire ranges for radial header fields, per the product ICD.
const (
	radialRecord = "radial"

	azimuthMin   float32 = 0
	azimuthMax   float32 = 360
	elevationMin float32 = -1
	elevationMax float32 = 45
	widthMin     float32 = 0
	widthMax     float32 = 2
	numBinsMin   int32   = 0
	numBinsMax   int32   = 1840
)

// DecodeRadial decodes one radial information structure (Figure E-4) from the
// front of buf and returns it with the unconsumed remainder. Each rate-array
// slot is 4 bytes on the wire but only its trailing 2 bytes encode the rate,
// as a big-endian uint16 of thousandths of an inch per hour; the leading 2
// bytes are preserved as a skip, not interpreted.
func DecodeRadial(buf []byte) (Radial, []byte, error) {
	azimuth, rest, err := wire.TakeFloat32(buf)
	if err != nil {
		return Radial{}, nil, fmt.Errorf("%s azimuth: %w", radialRecord, err)
	}
	if err := checkRangeInclusive(azimuthMin, azimuthMax, azimuth, "azimuth", radialRecord); err != nil {
		return Radial{}, nil, err
	}

	elevation, rest, err := wire.TakeFloat32(rest)
	if err != nil {
		return Radial{}, nil, fmt.Errorf("%s elevation: %w", radialRecord, err)
	}
	if err := checkRangeInclusive(elevationMin, elevationMax, elevation, "elevation", radialRecord); err != nil {
		return Radial{}, nil, err
	}

	width, rest, err := wire.TakeFloat32(rest)
	if err != nil {
		return Radial{}, nil, fmt.Errorf("%s width: %w", radialRecord, err)
	}
	if err := checkRangeInclusive(widthMin, widthMax, width, "width", radialRecord); err != nil {
		return Radial{}, nil, err
	}

	numBins, rest, err := wire.TakeInt32(rest)
	if err != nil {
		return Radial{}, nil, fmt.Errorf("%s num bins: %w", radialRecord, err)
	}
	if err := checkRangeInclusive(numBinsMin, numBinsMax, numBins, "num bins", radialRecord); err != nil {
		return Radial{}, nil, err
	}

	// Attributes string and a 4-byte reserved field, both uninterpreted.
	if _, rest, err = wire.TakeString(rest); err != nil {
		return Radial{}, nil, fmt.Errorf("%s attributes: %w", radialRecord, err)
	}
	if _, rest, err = wire.TakeBytes(rest, 4); err != nil {
		return Radial{}, nil, fmt.Errorf("%s reserved: %w", radialRecord, err)
	}

	payload, rest, err := wire.TakeBytes(rest, int(numBins)*4)
	if err != nil {
		return Radial{}, nil, fmt.Errorf("%s rate array: %w", radialRecord, err)
	}

	precipRates := make([]units.Velocity, 0, numBins)
	for i := 0; i < int(numBins); i++ {
		raw := binary.BigEndian.Uint16(payload[i*4+2 : i*4+4])
		precipRates = append(precipRates, units.InchesPerHour(float32(raw)/1000))
	}

	return Radial{
		Azimuth:     units.Degrees(azimuth),
		Elevation:   units.Degrees(elevation),
		Width:       units.Degrees(width),
		PrecipRates: precipRates,
	}, rest, nil
}
