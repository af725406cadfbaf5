package core

// ADCChannelID identifies a native ADC input. Targets map it to a physical
// pin or mux channel.
type ADCChannelID uint8

// ADCValue is the raw reading as returned by the target driver.
// Convention here: 12-bit code (0-4095), right aligned.
type ADCValue uint16

// ADCConfig is the high-level config the core cares about.
type ADCConfig struct {
	Reference uint32 // Reference voltage in millivolts (0 = target default)
}

// ADCDriver is the abstract ADC interface that core code uses.
type ADCDriver interface {
	// Init powers up and configures the ADC peripheral.
	Init(cfg ADCConfig) error

	// ConfigureChannel prepares a channel for analog input.
	ConfigureChannel(ch ADCChannelID) error

	// ReadRaw performs a one-shot sample from the given channel.
	ReadRaw(ch ADCChannelID) (ADCValue, error)
}

// Global singleton used by WithNativeADC.
var adcDriver ADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}
