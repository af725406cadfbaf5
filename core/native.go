package core

// Native ADC defaults. Pins 0-99 are physical pin numbers passed straight to
// the target ADC driver; the codes assume a 12-bit converter (0-4095) with a
// 100 ohm sense resistor on a 3.3 V reference.
const (
	NativePinStart = 0
	NativePinCount = 100
	NativeCode4mA  = 491
	NativeCode20mA = 2469
)

// NativeADC reads sensors wired to the microcontroller's own ADC.
type NativeADC struct {
	PinRange
	driver ADCDriver
}

// NewNativeADC creates a native provider sampling through d.
func NewNativeADC(d ADCDriver) *NativeADC {
	return &NativeADC{
		PinRange: PinRange{
			Start:    NativePinStart,
			Count:    NativePinCount,
			Code4mA:  NativeCode4mA,
			Code20mA: NativeCode20mA,
		},
		driver: d,
	}
}

// Init is a no-op; the target powers the ADC up when it registers the driver
// and channels are configured on first read.
func (n *NativeADC) Init() error {
	return nil
}

// ReadRaw samples pin. A driver error is logged and reads as 0.
func (n *NativeADC) ReadRaw(pin int) int {
	v, err := n.driver.ReadRaw(ADCChannelID(pin))
	if err != nil {
		LogError("native adc read pin=" + itoa(pin) + ": " + err.Error())
		return 0
	}
	return int(v)
}
