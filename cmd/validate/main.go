// Command validate decodes a binary scan file and prints a per-scan summary.
// It exits non-zero if any record fails range validation or the file is
// truncated, which makes it usable as a fixture sanity check in CI.
//
// Usage:
//
//	go run ./cmd/validate -file data/mock/scan_00.bin
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/couchcryptid/precip-radial-etl/internal/product"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	file := flag.String("file", "", "path to a binary scan file")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		return errors.New("missing required flag: -file")
	}

	buf, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read %s: %w", *file, err)
	}

	var scans int
	for len(buf) > 0 {
		scan, rest, err := product.DecodeScan(buf)
		if err != nil {
			return fmt.Errorf("scan %d: %w", scans, err)
		}
		printScan(scans, scan)
		scans++
		buf = rest
	}

	log.Printf("OK: %d scan(s) decoded", scans)
	return nil
}

func printScan(index int, scan product.Scan) {
	var bins int
	var maxRate float32
	for _, r := range scan.Radials {
		bins += len(r.PrecipRates)
		for _, rate := range r.PrecipRates {
			if v := rate.InchesPerHour(); v > maxRate {
				maxRate = v
			}
		}
	}

	elevation := float32(0)
	if len(scan.Radials) > 0 {
		elevation = scan.Radials[0].Elevation.Degrees()
	}

	log.Printf("scan %d: %d radials at %.1f° elevation, %d bins, max rate %.3f in/hr",
		index, len(scan.Radials), elevation, bins, maxRate)
}
