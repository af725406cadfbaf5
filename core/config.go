package core

// Defaults for a SensorConfig with no value mapping; the value is reported
// in mA.
const (
	DefaultValueLow   = 4.0
	DefaultValue20mA  = 20.0
	DefaultOffset     = 0.0
	DefaultMultiplier = 1.0
)

// SensorConfig maps one virtual pin to a named engineering value.
type SensorConfig struct {
	// VirtualPin is the pin to read. Native pins are the pin number passed
	// to the ADC driver; external converters use the virtual range given
	// when they were added, for example 100-103 for an ADS1015 at 100.
	VirtualPin int

	// Name is the key used when the value is written to a ValueWriter.
	Name string

	// ValueLow is the low side value, for example 0 for a 0-100°C sensor.
	ValueLow float64

	// Value20mA is the value at 20 mA, for example 100 for a 0-100°C sensor.
	Value20mA float64

	// ValueLowIs4mA selects whether ValueLow is the value at 4 mA (true) or
	// at 0 mA. Some cheap sensors sold as 0-100°C read 0°C at 0 mA.
	ValueLowIs4mA bool

	// Offset is added to the scaled value.
	Offset float64

	// Multiplier scales the value after Offset is added.
	Multiplier float64
}

// Sensor returns a config for pin with the defaults applied: the value is
// reported in mA with no adjustment.
func Sensor(pin int, name string) SensorConfig {
	return SensorConfig{
		VirtualPin:    pin,
		Name:          name,
		ValueLow:      DefaultValueLow,
		Value20mA:     DefaultValue20mA,
		ValueLowIs4mA: true,
		Offset:        DefaultOffset,
		Multiplier:    DefaultMultiplier,
	}
}

// Range sets the values reported at the low end and at 20 mA.
func (c SensorConfig) Range(low, high float64) SensorConfig {
	c.ValueLow = low
	c.Value20mA = high
	return c
}

// LowIs0mA marks ValueLow as the 0 mA value instead of the 4 mA value.
func (c SensorConfig) LowIs0mA() SensorConfig {
	c.ValueLowIs4mA = false
	return c
}

// Adjust sets the calibration offset and multiplier.
func (c SensorConfig) Adjust(offset, multiplier float64) SensorConfig {
	c.Offset = offset
	c.Multiplier = multiplier
	return c
}

// Scale converts a loop current to the configured engineering value.
func (c SensorConfig) Scale(mA float64) float64 {
	var v float64
	if c.ValueLowIs4mA {
		v = (mA-4.0)*(c.Value20mA-c.ValueLow)/16.0 + c.ValueLow
	} else {
		v = mA * (c.Value20mA - c.ValueLow) / 20.0
	}
	return (v + c.Offset) * c.Multiplier
}

// SensorValue is the result of reading one pin.
type SensorValue struct {
	ADCValue int     // Raw ADC code
	MA       float64 // Loop current in mA
	Value    float64 // Scaled value, equal to MA when no config matches
}
