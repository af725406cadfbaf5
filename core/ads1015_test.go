package core

import (
	"errors"
	"testing"
	"time"
)

// mockI2C is a test implementation of drivers.I2C backed by a register map
type mockI2C struct {
	addr   uint16
	regs   map[uint8]uint16
	writes [][]byte
	err    error
}

func newMockI2C(addr uint16) *mockI2C {
	return &mockI2C{addr: addr, regs: make(map[uint8]uint16)}
}

func (m *mockI2C) Tx(addr uint16, w, r []byte) error {
	if m.err != nil {
		return m.err
	}
	if addr != m.addr {
		return errors.New("nack")
	}
	if len(w) == 0 {
		return errors.New("no register")
	}
	reg := w[0]
	if len(w) == 3 {
		m.writes = append(m.writes, append([]byte(nil), w...))
		m.regs[reg] = uint16(w[1])<<8 | uint16(w[2])
	}
	if len(r) >= 2 {
		v := m.regs[reg]
		r[0] = byte(v >> 8)
		r[1] = byte(v)
	}
	return nil
}

func (m *mockI2C) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return m.Tx(uint16(addr), []byte{reg}, buf)
}

func (m *mockI2C) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	return m.Tx(uint16(addr), append([]byte{reg}, buf...), nil)
}

func newTestADS1015(start int, bus *mockI2C) *ADS1015 {
	d := NewADS1015(start, ADS1015AddressGND, bus)
	d.sleep = func(time.Duration) {}
	return d
}

func TestADS1015Init(t *testing.T) {
	bus := newMockI2C(ADS1015AddressGND)
	bus.regs[ads1015RegConfig] = 0x8583 // power-on default

	d := newTestADS1015(100, bus)
	if err := d.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	if len(bus.writes) != 0 {
		t.Errorf("Init wrote %v, expected a read-only probe", bus.writes)
	}
}

func TestADS1015InitNoDevice(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(nil)

	bus := newMockI2C(ADS1015AddressVDD)
	d := newTestADS1015(100, bus)

	if err := d.Init(); !errors.Is(err, ErrNoDevice) {
		t.Errorf("Init() = %v, expected ErrNoDevice", err)
	}
	if len(lines) != 1 || lines[0] != "[ERROR] ADC initialization failed addr=72" {
		t.Errorf("logged %q", lines)
	}
}

func TestADS1015ReadRaw(t *testing.T) {
	bus := newMockI2C(ADS1015AddressGND)
	d := newTestADS1015(100, bus)

	testCases := []struct {
		pin        int
		conversion uint16
		wantConfig uint16
		wantRaw    int
	}{
		{100, 199 << 4, 0xC383, 199},
		{101, 1004 << 4, 0xD383, 1004},
		{102, 0x7FF0, 0xE383, 2047},
		{103, 0xFFF0, 0xF383, -1},
	}

	for _, tc := range testCases {
		bus.writes = nil
		bus.regs[ads1015RegConversion] = tc.conversion

		raw := d.ReadRaw(tc.pin)
		if raw != tc.wantRaw {
			t.Errorf("pin %d: ReadRaw = %d, expected %d", tc.pin, raw, tc.wantRaw)
		}
		if len(bus.writes) != 1 {
			t.Fatalf("pin %d: %d config writes, expected 1", tc.pin, len(bus.writes))
		}
		w := bus.writes[0]
		got := uint16(w[1])<<8 | uint16(w[2])
		if w[0] != ads1015RegConfig || got != tc.wantConfig {
			t.Errorf("pin %d: wrote reg %d = 0x%04X, expected reg 1 = 0x%04X", tc.pin, w[0], got, tc.wantConfig)
		}
	}
}

func TestADS1015Calibration(t *testing.T) {
	bus := newMockI2C(ADS1015AddressGND)
	r := NewRegistry().AddProvider(newTestADS1015(100, bus))

	bus.regs[ads1015RegConversion] = ADS1015Code4mA << 4
	if v := r.ReadValue(102); v.ADCValue != ADS1015Code4mA || v.MA != 4.0 {
		t.Errorf("4 mA code read as %+v", v)
	}

	bus.regs[ads1015RegConversion] = ADS1015Code20mA << 4
	if v := r.ReadValue(103); v.ADCValue != ADS1015Code20mA || v.MA != 20.0 {
		t.Errorf("20 mA code read as %+v", v)
	}
}

func TestADS1015ReadRawBusError(t *testing.T) {
	SetDebugWriter(func(s string) { t.Logf("log: %s", s) })
	defer SetDebugWriter(nil)

	bus := newMockI2C(ADS1015AddressGND)
	bus.regs[ads1015RegConversion] = 500 << 4
	bus.err = errors.New("bus timeout")
	d := newTestADS1015(100, bus)

	if raw := d.ReadRaw(100); raw != 0 {
		t.Errorf("ReadRaw with bus error = %d, expected 0", raw)
	}
}

func TestADS1015BadChannel(t *testing.T) {
	d := newTestADS1015(100, newMockI2C(ADS1015AddressGND))

	if _, err := d.readSingleEnded(4); !errors.Is(err, ErrBadChannel) {
		t.Errorf("readSingleEnded(4) = %v, expected ErrBadChannel", err)
	}
	if raw := d.ReadRaw(99); raw != 0 {
		t.Errorf("ReadRaw(99) = %d, expected 0", raw)
	}
}

func TestRegistryWithTwoADS1015(t *testing.T) {
	busA := newMockI2C(ADS1015AddressGND)
	busB := newMockI2C(ADS1015AddressGND)
	busA.regs[ads1015RegConfig] = 0x8583
	busB.regs[ads1015RegConfig] = 0x8583
	busA.regs[ads1015RegConversion] = 300 << 4
	busB.regs[ads1015RegConversion] = 900 << 4

	r := NewRegistry().
		WithADS1015(100, ADS1015AddressGND, busA).
		WithADS1015(104, ADS1015AddressGND, busB)
	for _, p := range r.providers {
		p.(*ADS1015).sleep = func(time.Duration) {}
	}

	if err := r.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	if raw := r.ReadRaw(103); raw != 300 {
		t.Errorf("ReadRaw(103) = %d, expected 300", raw)
	}
	if raw := r.ReadRaw(104); raw != 900 {
		t.Errorf("ReadRaw(104) = %d, expected 900", raw)
	}
	if raw := r.ReadRaw(108); raw != 0 {
		t.Errorf("ReadRaw(108) = %d, expected 0", raw)
	}
}
