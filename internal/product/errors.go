package product

import "fmt"

// RangeError reports a decoded scalar lying outside its physically legal
// range. It carries enough context to name the offending field without the
// caller re-parsing anything.
type RangeError struct {
	Record string
	Field  string
	Value  float64
	Min    float64
	Max    float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s %v outside legal range [%v, %v]",
		e.Record, e.Field, e.Value, e.Min, e.Max)
}

// scalar constrains range checks to the wire scalar types used by products.
type scalar interface {
	~int32 | ~float32
}

// checkRangeInclusive verifies lo <= v <= hi with exact comparison (no
// epsilon), returning a *RangeError naming the field and record on violation.
func checkRangeInclusive[T scalar](lo, hi, v T, field, record string) error {
	if v < lo || v > hi {
		return &RangeError{
			Record: record,
			Field:  field,
			Value:  float64(v),
			Min:    float64(lo),
			Max:    float64(hi),
		}
	}
	return nil
}
