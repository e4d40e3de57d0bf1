// Package domain models NEXRAD Level III precipitation radial data.
//
// # Data Source
//
// Payloads originate from the NWS radar product feed. An upstream collector
// subscribes to the Level III precipitation product stream, strips the
// product and symbology headers, and publishes each elevation scan's radial
// data block to the Kafka source topic as raw bytes, with the originating
// station ID in a "station" message header.
//
// # Wire Conventions
//
// A scan payload is a big-endian int32 radial count followed by back-to-back
// radial structures. Each radial carries:
//
//	azimuth    float32, degrees, legal range [0, 360]
//	elevation  float32, degrees, legal range [-1, 45]
//	width      float32, degrees, legal range [0, 2]
//	num bins   int32, legal range [0, 1840]
//	attributes uint16-length-prefixed string, uninterpreted
//	reserved   4 bytes, uninterpreted
//	rate array num_bins 4-byte slots; the trailing 2 bytes of each slot are a
//	           big-endian uint16 rate in thousandths of an inch per hour
//
// The leading 2 bytes of each rate slot are present on the wire but carry no
// rate information; the decoder skips them without interpretation. A rate of
// zero means "no precipitation measured", not "missing data".
//
// # ID Generation
//
// Scan IDs are deterministic SHA-256 hashes of station|timestamp|radial count.
// This enables idempotent upserts downstream and replay safety without
// distributed coordination. See [generateID].
package domain
