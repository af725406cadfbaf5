// Package core converts raw ADC codes from 4-20 mA current-loop sensors into
// calibrated engineering values.
//
// Sensors are addressed by virtual pin. Each Provider owns a contiguous range
// of virtual pins backed by one ADC source (the native ADC or an external
// I2C converter) and a Registry dispatches reads to the owning provider.
package core

import "math"

// Provider is one ADC source owning a range of virtual pins.
type Provider interface {
	// Init performs one-time hardware bring-up.
	Init() error

	// InRange reports whether the provider owns pin.
	InRange(pin int) bool

	// ReadRaw returns the ADC code for pin. Hardware failures return 0.
	ReadRaw(pin int) int

	// ConvertToMA maps an ADC code to loop current in mA.
	ConvertToMA(raw int) float64
}

// PinRange holds the virtual pin range and calibration codes shared by all
// provider variants.
type PinRange struct {
	Start    int // First virtual pin owned
	Count    int // Number of pins owned
	Code4mA  int // ADC code at 4 mA loop current
	Code20mA int // ADC code at 20 mA loop current
}

// InRange returns true if Start <= pin < Start+Count.
func (r PinRange) InRange(pin int) bool {
	return pin >= r.Start && pin < r.Start+r.Count
}

// ConvertToMA linearly maps raw through the two calibration points.
// Values outside 4-20 mA are extrapolated, not clamped; they indicate a
// broken loop or an over-range sensor. Equal calibration codes give NaN.
func (r PinRange) ConvertToMA(raw int) float64 {
	delta := r.Code20mA - r.Code4mA
	if delta == 0 {
		return math.NaN()
	}
	return float64(raw-r.Code4mA)*16.0/float64(delta) + 4.0
}

// Channel returns the zero based channel index of pin within the range.
func (r PinRange) Channel(pin int) int {
	return pin - r.Start
}
