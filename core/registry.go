package core

import (
	"errors"
	"math"

	"tinygo.org/x/drivers"
)

// ErrUnknownPin is returned by Lookup when no provider owns the pin.
var ErrUnknownPin = errors.New("no provider for pin")

// ValueWriter receives named sensor values, for example a telemetry encoder.
type ValueWriter interface {
	WriteValue(name string, value float64)
}

// ReadingObserver is implemented by a ValueWriter that also wants the full
// reading behind every configured sensor, including those skipped as NaN.
type ReadingObserver interface {
	ObserveReading(cfg SensorConfig, v SensorValue)
}

// Registry routes reads by virtual pin to the provider owning it.
//
// Typical setup from the firmware main:
//
//	sensors := core.NewRegistry().
//		WithADS1015(100, core.ADS1015AddressGND, machine.I2C0).
//		WithConfig(sensorConfig)
//	if err := sensors.Init(); err != nil {
//		...
//	}
//
// A Registry is meant for one control loop and is not safe for concurrent use.
type Registry struct {
	providers   []Provider
	config      []SensorConfig
	initialized bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddProvider appends p. Providers are probed in the order they were added
// and their pin ranges must not overlap.
func (r *Registry) AddProvider(p Provider) *Registry {
	r.providers = append(r.providers, p)
	return r
}

// WithNativeADC adds the native ADC using the driver registered with
// SetADCDriver.
func (r *Registry) WithNativeADC() *Registry {
	return r.AddProvider(NewNativeADC(MustADC()))
}

// WithNativeADCDriver adds the native ADC sampling through d.
func (r *Registry) WithNativeADCDriver(d ADCDriver) *Registry {
	return r.AddProvider(NewNativeADC(d))
}

// WithADS1015 adds an ADS1015 at address on bus, owning virtual pins
// start..start+3. Call it once per converter.
func (r *Registry) WithADS1015(start int, address uint16, bus drivers.I2C) *Registry {
	return r.AddProvider(NewADS1015(start, address, bus))
}

// WithConfig sets the sensor configuration. The slice is not copied; it is
// usually a package-level table and must not be modified while the
// registry is in use.
func (r *Registry) WithConfig(config []SensorConfig) *Registry {
	r.config = config
	return r
}

// Init initializes every provider in order and stops at the first failure.
// Providers after the failing one are left uninitialized.
func (r *Registry) Init() error {
	for i, p := range r.providers {
		if err := p.Init(); err != nil {
			return &InitError{Index: i, Err: err}
		}
	}
	r.initialized = true
	return nil
}

// Initialized reports whether Init has succeeded. Reads are allowed before
// that but return whatever the hardware gives.
func (r *Registry) Initialized() bool {
	return r.initialized
}

// InitError reports which provider failed to initialize.
type InitError struct {
	Index int
	Err   error
}

func (e *InitError) Error() string {
	return "provider " + itoa(e.Index) + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

func (r *Registry) provider(pin int) Provider {
	for _, p := range r.providers {
		if p.InRange(pin) {
			return p
		}
	}
	return nil
}

// ReadRaw returns the raw ADC code for pin, or 0 if no provider owns it.
func (r *Registry) ReadRaw(pin int) int {
	if p := r.provider(pin); p != nil {
		return p.ReadRaw(pin)
	}
	return 0
}

// ReadValue reads pin and converts it to mA and, if a config entry exists
// for the pin, to its engineering value. An unknown pin returns the zero
// SensorValue, which cannot be told apart from a real zero reading; use
// Lookup when that matters.
func (r *Registry) ReadValue(pin int) SensorValue {
	v, _ := r.Lookup(pin)
	return v
}

// Lookup is ReadValue with ErrUnknownPin for pins no provider owns.
func (r *Registry) Lookup(pin int) (SensorValue, error) {
	p := r.provider(pin)
	if p == nil {
		return SensorValue{}, ErrUnknownPin
	}

	var result SensorValue
	result.ADCValue = p.ReadRaw(pin)
	result.MA = p.ConvertToMA(result.ADCValue)
	result.Value = result.MA

	if math.IsNaN(result.MA) {
		return result, nil
	}
	if cfg := r.configFor(pin); cfg != nil {
		result.Value = cfg.Scale(result.MA)
	}
	return result, nil
}

// configFor returns the first config entry for pin.
func (r *Registry) configFor(pin int) *SensorConfig {
	for i := range r.config {
		if r.config[i].VirtualPin == pin {
			return &r.config[i]
		}
	}
	return nil
}

// WriteValues reads every configured sensor in config order and writes
// its name and value to w. Readings whose mA is NaN are skipped.
func (r *Registry) WriteValues(w ValueWriter) {
	obs, _ := w.(ReadingObserver)
	for i := range r.config {
		v := r.ReadValue(r.config[i].VirtualPin)
		if obs != nil {
			obs.ObserveReading(r.config[i], v)
		}
		if math.IsNaN(v.MA) {
			continue
		}
		w.WriteValue(r.config[i].Name, v.Value)
	}
}
