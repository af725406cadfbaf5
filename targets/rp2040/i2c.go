//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers"
)

// i2cFrequency is standard mode; the ADS1015 also supports 400 kHz but the
// sensor cabling on these boards is long.
const i2cFrequency = 100 * machine.KHz

var errBadBus = errors.New("unsupported I2C bus ID")

// configured I2C buses, set up on first request
var i2cBuses = map[uint8]*machine.I2C{}

// i2cBus returns the configured bus with the given index.
// I2C0 uses SDA=GP4, SCL=GP5 and I2C1 uses SDA=GP6, SCL=GP7.
func i2cBus(id uint8) (drivers.I2C, error) {
	if bus, ok := i2cBuses[id]; ok {
		return bus, nil
	}

	var bus *machine.I2C
	var sda, scl machine.Pin
	switch id {
	case 0:
		bus, sda, scl = machine.I2C0, machine.GP4, machine.GP5
	case 1:
		bus, sda, scl = machine.I2C1, machine.GP6, machine.GP7
	default:
		return nil, errBadBus
	}

	err := bus.Configure(machine.I2CConfig{
		Frequency: i2cFrequency,
		SDA:       sda,
		SCL:       scl,
	})
	if err != nil {
		return nil, err
	}

	i2cBuses[id] = bus
	return bus, nil
}
