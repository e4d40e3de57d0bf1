// Package units provides small typed quantities for the angles and
// precipitation velocities carried by radar products, so degree and
// inch-per-hour values cannot be mixed up with bare floats.
package units

import "math"

// Angle is an angular quantity stored in degrees.
type Angle float32

// Degrees constructs an Angle from a degree value.
func Degrees(v float32) Angle { return Angle(v) }

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float32 { return float32(a) }

// Radians returns the angle in radians.
func (a Angle) Radians() float32 { return float32(a) * math.Pi / 180 }

// Velocity is a rainfall-rate quantity stored in inches per hour.
type Velocity float32

// InchesPerHour constructs a Velocity from an inch-per-hour value.
func InchesPerHour(v float32) Velocity { return Velocity(v) }

// InchesPerHour returns the velocity in inches per hour.
func (v Velocity) InchesPerHour() float32 { return float32(v) }

// MillimetersPerHour returns the velocity in millimeters per hour.
func (v Velocity) MillimetersPerHour() float32 { return float32(v) * 25.4 }
