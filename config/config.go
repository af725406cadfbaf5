// Package config loads board and sensor tables from JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"loop420/core"
	"loop420/protocol"

	"tinygo.org/x/drivers"
)

var (
	ErrNoName       = errors.New("sensor has no name")
	ErrBadAddress   = errors.New("ads1015 address must be 0x48-0x4B")
	ErrRangeOverlap = errors.New("virtual pin ranges overlap")
	ErrNameTooLong  = errors.New("sensor name too long for a telemetry block")
)

// DefaultADS1015Start is the first virtual pin given to an ADS1015 that
// does not set one.
const DefaultADS1015Start = 100

// BoardConfig describes the ADC sources and sensors of one board.
type BoardConfig struct {
	// NativeADC enables the microcontroller's own ADC on pins 0-99.
	NativeADC bool `json:"native_adc"`

	// ADS1015 lists external converters, each owning four virtual pins.
	ADS1015 []ADS1015Config `json:"ads1015"`

	// Sensors maps virtual pins to named values.
	Sensors []SensorConfig `json:"sensors"`
}

// ADS1015Config places one ADS1015 in the virtual pin space. An omitted
// start packs the converter after the previous one, beginning at 100.
type ADS1015Config struct {
	Start   *int   `json:"start,omitempty"`
	Address uint16 `json:"address"`
	Bus     uint8  `json:"bus"`
}

// StartPin returns the first virtual pin of the converter.
func (a ADS1015Config) StartPin() int {
	if a.Start == nil {
		return DefaultADS1015Start
	}
	return *a.Start
}

// SensorConfig is the JSON form of core.SensorConfig. Omitted fields take
// the library defaults, so {"pin":100,"name":"sen1"} reports mA.
type SensorConfig struct {
	Pin           int      `json:"pin"`
	Name          string   `json:"name"`
	ValueLow      *float64 `json:"low,omitempty"`
	Value20mA     *float64 `json:"high,omitempty"`
	ValueLowIs4mA *bool    `json:"low_is_4ma,omitempty"`
	Offset        *float64 `json:"offset,omitempty"`
	Multiplier    *float64 `json:"multiplier,omitempty"`
}

// LoadConfig parses a JSON board description and applies defaults.
func LoadConfig(jsonData []byte) (*BoardConfig, error) {
	var config BoardConfig

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *BoardConfig) {
	next := DefaultADS1015Start
	for i := range config.ADS1015 {
		adc := &config.ADS1015[i]
		if adc.Start == nil {
			start := next
			adc.Start = &start
		}
		if adc.Address == 0 {
			adc.Address = core.ADS1015AddressGND
		}
		next = *adc.Start + core.ADS1015Channels
	}
}

func validate(config *BoardConfig) error {
	type span struct{ start, end int }
	var spans []span
	if config.NativeADC {
		spans = append(spans, span{core.NativePinStart, core.NativePinStart + core.NativePinCount})
	}
	for _, adc := range config.ADS1015 {
		if adc.Address < core.ADS1015AddressGND || adc.Address > core.ADS1015AddressSCL {
			return fmt.Errorf("ads1015 at %d: %w", adc.StartPin(), ErrBadAddress)
		}
		spans = append(spans, span{adc.StartPin(), adc.StartPin() + core.ADS1015Channels})
	}
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].start < spans[j].end && spans[j].start < spans[i].end {
				return fmt.Errorf("pins %d-%d and %d-%d: %w",
					spans[i].start, spans[i].end-1, spans[j].start, spans[j].end-1, ErrRangeOverlap)
			}
		}
	}

	for i, s := range config.Sensors {
		if s.Name == "" {
			return fmt.Errorf("sensor %d (pin %d): %w", i, s.Pin, ErrNoName)
		}
		if len(s.Name) > protocol.MaxNameLength {
			return fmt.Errorf("sensor %q: %w", s.Name, ErrNameTooLong)
		}
	}
	return nil
}

// BusFunc returns the configured I2C bus with the given index.
type BusFunc func(bus uint8) (drivers.I2C, error)

// NewRegistry builds a registry with the configured providers and sensor
// table. native is used when NativeADC is set. Init is left to the caller.
func (c *BoardConfig) NewRegistry(native core.ADCDriver, buses BusFunc) (*core.Registry, error) {
	r := core.NewRegistry()
	if c.NativeADC {
		if native == nil {
			return nil, errors.New("native_adc set but no ADC driver")
		}
		r.WithNativeADCDriver(native)
	}
	for _, adc := range c.ADS1015 {
		bus, err := buses(adc.Bus)
		if err != nil {
			return nil, fmt.Errorf("ads1015 at %d: %w", adc.StartPin(), err)
		}
		r.WithADS1015(adc.StartPin(), adc.Address, bus)
	}
	return r.WithConfig(c.SensorTable()), nil
}

// SensorTable converts the sensor list to core configs.
func (c *BoardConfig) SensorTable() []core.SensorConfig {
	table := make([]core.SensorConfig, 0, len(c.Sensors))
	for _, s := range c.Sensors {
		table = append(table, s.Core())
	}
	return table
}

// Core returns the core.SensorConfig with defaults for omitted fields.
func (s SensorConfig) Core() core.SensorConfig {
	cfg := core.Sensor(s.Pin, s.Name)
	if s.ValueLow != nil {
		cfg.ValueLow = *s.ValueLow
	}
	if s.Value20mA != nil {
		cfg.Value20mA = *s.Value20mA
	}
	if s.ValueLowIs4mA != nil {
		cfg.ValueLowIs4mA = *s.ValueLowIs4mA
	}
	if s.Offset != nil {
		cfg.Offset = *s.Offset
	}
	if s.Multiplier != nil {
		cfg.Multiplier = *s.Multiplier
	}
	return cfg
}
