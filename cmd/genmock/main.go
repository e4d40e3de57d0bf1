// Command genmock generates binary scan fixtures plus their expected decoded
// JSON for test suites and local pipeline runs. It uses the actual domain
// package to ensure the expected output matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out-dir data/mock \
//	  -scans 4 -radials 8 -bins 16 -seed 1
package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/precip-radial-etl/internal/domain"
)

var baseDate = time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "output directory for fixtures")
	station := flag.String("station", "KTLX", "station ID stamped on each fixture")
	scans := flag.Int("scans", 4, "number of scan fixtures to generate")
	radials := flag.Int("radials", 8, "radials per scan")
	bins := flag.Int("bins", 16, "bins per radial")
	seed := flag.Int64("seed", 1, "RNG seed for reproducible rates")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(baseDate.Add(6 * time.Hour)))
	defer domain.SetClock(nil)

	rng := rand.New(rand.NewSource(*seed))
	events := make([]domain.ScanEvent, 0, *scans)

	for i := 0; i < *scans; i++ {
		collectedAt := baseDate.Add(time.Duration(i) * 5 * time.Minute)
		payload := encodeScan(rng, *radials, *bins)

		binPath := filepath.Join(*outDir, fmt.Sprintf("scan_%02d.bin", i))
		if err := os.WriteFile(binPath, payload, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", binPath, err)
		}

		// Run the actual decode so the expected JSON matches the pipeline.
		event, err := domain.ParseRawEvent(domain.RawEvent{
			Value:     payload,
			Headers:   map[string]string{"station": *station},
			Timestamp: collectedAt,
		})
		if err != nil {
			return fmt.Errorf("decoding generated scan %d: %w", i, err)
		}
		events = append(events, event)
		log.Printf("scan %02d: %d radials, %d bins, max rate %.3f in/hr",
			i, event.NumRadials, event.TotalBins, event.MaxRateInHr)
	}

	jsonPath := filepath.Join(*outDir, "scans_decoded.json")
	if err := writeJSON(jsonPath, events); err != nil {
		return fmt.Errorf("writing expected JSON: %w", err)
	}
	log.Printf("wrote %d fixtures to %s", *scans, *outDir)
	return nil
}

// encodeScan serializes a scan whose radials tile the azimuth circle, with
// random but seed-stable rates up to 4 in/hr.
func encodeScan(rng *rand.Rand, radials, bins int) []byte {
	var b bytes.Buffer
	width := float32(360) / float32(radials)
	if width > 2 {
		width = 2
	}

	binary.Write(&b, binary.BigEndian, int32(radials)) //nolint:errcheck // bytes.Buffer cannot fail
	for i := 0; i < radials; i++ {
		azimuth := float32(360) * float32(i) / float32(radials)
		binary.Write(&b, binary.BigEndian, azimuth)          //nolint:errcheck
		binary.Write(&b, binary.BigEndian, float32(0.5))     //nolint:errcheck
		binary.Write(&b, binary.BigEndian, width)            //nolint:errcheck
		binary.Write(&b, binary.BigEndian, int32(bins))      //nolint:errcheck
		binary.Write(&b, binary.BigEndian, uint16(0))        //nolint:errcheck // empty attributes
		b.Write([]byte{0x00, 0x00, 0x00, 0x00})              // reserved
		for j := 0; j < bins; j++ {
			rate := uint16(rng.Intn(4000))
			b.Write([]byte{0x00, 0x00, byte(rate >> 8), byte(rate)})
		}
	}
	return b.Bytes()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
