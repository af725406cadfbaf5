//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"loop420/core"
)

var errNotADCPin = errors.New("pin is not an ADC input (GPIO26-29)")

// RpAdcDriver implements core.ADCDriver using TinyGo's machine.ADC.
// Channel IDs are GPIO numbers, so native sensor pins are written the way
// they are printed on the board.
type RpAdcDriver struct {
	arefMilliVolt uint32

	// Per-channel TinyGo ADC handles.
	channels map[core.ADCChannelID]*machine.ADC
}

// NewRPAdcDriver constructs the driver but does not Init() it yet.
func NewRPAdcDriver() *RpAdcDriver {
	return &RpAdcDriver{
		arefMilliVolt: 3300,
		channels:      make(map[core.ADCChannelID]*machine.ADC),
	}
}

func (d *RpAdcDriver) Init(cfg core.ADCConfig) error {
	if cfg.Reference != 0 {
		d.arefMilliVolt = cfg.Reference
	}

	machine.InitADC()
	return nil
}

// ConfigureChannel puts a GPIO into analog mode.
func (d *RpAdcDriver) ConfigureChannel(ch core.ADCChannelID) error {
	if _, ok := d.channels[ch]; ok {
		// already configured
		return nil
	}

	var adc machine.ADC
	switch ch {
	case 26:
		adc = machine.ADC{Pin: machine.ADC0}
	case 27:
		adc = machine.ADC{Pin: machine.ADC1}
	case 28:
		adc = machine.ADC{Pin: machine.ADC2}
	case 29:
		adc = machine.ADC{Pin: machine.ADC3}
	default:
		return errNotADCPin
	}

	if err := adc.Configure(machine.ADCConfig{Reference: d.arefMilliVolt}); err != nil {
		return err
	}

	d.channels[ch] = &adc
	return nil
}

// ReadRaw returns a 12-bit ADC value (0-4095), configuring the channel on
// first use.
func (d *RpAdcDriver) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	adc, ok := d.channels[ch]
	if !ok {
		if err := d.ConfigureChannel(ch); err != nil {
			return 0, err
		}
		adc = d.channels[ch]
	}

	// machine.ADC.Get scales the 12-bit result to 16 bits
	return core.ADCValue(adc.Get() >> 4), nil
}
