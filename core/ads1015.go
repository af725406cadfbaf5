package core

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// ADS1015 I2C addresses, selected by the ADDR pin strap.
const (
	ADS1015AddressGND uint16 = 0x48
	ADS1015AddressVDD uint16 = 0x49
	ADS1015AddressSDA uint16 = 0x4A
	ADS1015AddressSCL uint16 = 0x4B
)

// ADS1015 calibration at gain 1 (+/-4.096 V, 2 mV per code) across a
// 100 ohm sense resistor.
const (
	ADS1015Channels = 4
	ADS1015Code4mA  = 199
	ADS1015Code20mA = 1004
)

// ADS1015 registers
const (
	ads1015RegConversion = 0x00
	ads1015RegConfig     = 0x01
)

// Config register fields
const (
	ads1015ConfigOsSingle   uint16 = 0x8000
	ads1015ConfigMuxSingle0 uint16 = 0x4000 // AIN0 vs GND, +0x1000 per channel
	ads1015ConfigGainOne    uint16 = 0x0200 // +/- 4.096V
	ads1015ConfigModeSingle uint16 = 0x0100
	ads1015ConfigRate1600   uint16 = 0x0080
	ads1015ConfigQueueNone  uint16 = 0x0003
)

// ADS1015ConversionDelay is the wait between starting a single-shot
// conversion and reading the result at 1600 SPS.
const ADS1015ConversionDelay = time.Millisecond

var (
	ErrNoDevice   = errors.New("ads1015: device did not respond")
	ErrBadChannel = errors.New("ads1015: channel out of range")
)

// ADS1015 reads four single-ended channels of a TI ADS1015 12-bit ADC.
// Virtual pins Start..Start+3 map to AIN0..AIN3.
type ADS1015 struct {
	PinRange
	bus     drivers.I2C
	address uint16
	sleep   func(time.Duration)
}

// NewADS1015 creates a provider for the converter at address on bus, owning
// virtual pins start..start+3. The bus must already be configured.
func NewADS1015(start int, address uint16, bus drivers.I2C) *ADS1015 {
	return &ADS1015{
		PinRange: PinRange{
			Start:    start,
			Count:    ADS1015Channels,
			Code4mA:  ADS1015Code4mA,
			Code20mA: ADS1015Code20mA,
		},
		bus:     bus,
		address: address,
		sleep:   time.Sleep,
	}
}

// Init probes the device by reading its config register.
func (d *ADS1015) Init() error {
	if _, err := d.readRegister(ads1015RegConfig); err != nil {
		LogError("ADC initialization failed addr=" + itoa(int(d.address)))
		return ErrNoDevice
	}
	return nil
}

// ReadRaw runs a single-shot conversion on the channel backing pin and
// returns the 12-bit result. Bus errors are logged and read as 0.
func (d *ADS1015) ReadRaw(pin int) int {
	v, err := d.readSingleEnded(d.Channel(pin))
	if err != nil {
		LogError("ads1015 read pin=" + itoa(pin) + ": " + err.Error())
		return 0
	}
	return v
}

func (d *ADS1015) readSingleEnded(ch int) (int, error) {
	if ch < 0 || ch >= ADS1015Channels {
		return 0, ErrBadChannel
	}

	// Gain 1: FSR = +/-4.096V. Inputs must stay below VDD + 0.3 V, so a
	// 3.3V supply reads at most about 1650.
	mux := ads1015ConfigMuxSingle0 + uint16(ch)<<12
	config := ads1015ConfigOsSingle |
		mux |
		ads1015ConfigGainOne |
		ads1015ConfigModeSingle |
		ads1015ConfigRate1600 |
		ads1015ConfigQueueNone

	if err := d.writeRegister(ads1015RegConfig, config); err != nil {
		return 0, err
	}

	d.sleep(ADS1015ConversionDelay)

	raw, err := d.readRegister(ads1015RegConversion)
	if err != nil {
		return 0, err
	}
	// Result is left aligned in the upper 12 bits.
	return int(int16(raw) >> 4), nil
}

func (d *ADS1015) writeRegister(reg uint8, v uint16) error {
	return d.bus.Tx(d.address, []byte{reg, byte(v >> 8), byte(v)}, nil)
}

func (d *ADS1015) readRegister(reg uint8) (uint16, error) {
	var buf [2]byte
	if err := d.bus.Tx(d.address, []byte{reg}, buf[:]); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}
