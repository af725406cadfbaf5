//go:build rp2040 || rp2350

package main

import (
	_ "embed"
	"machine"
	"time"

	"loop420/config"
	"loop420/core"
	"loop420/protocol"
)

// Board description: providers and sensor table
//
//go:embed sensors.json
var boardJSON []byte

// reportInterval is the time between telemetry reports
const reportInterval = 2 * time.Second

var (
	// Debug counters
	reportsSent  uint32
	reportErrors uint32
)

func main() {
	// Log lines go to UART0 (GP0/GP1); USB CDC carries telemetry only
	machine.UART0.Configure(machine.UARTConfig{BaudRate: 115200})
	core.SetDebugWriter(func(s string) {
		machine.UART0.Write([]byte(s + "\r\n"))
	})
	core.SetDebugEnabled(true)

	// Initialize USB CDC
	if err := machine.Serial.Configure(machine.UARTConfig{}); err != nil {
		core.LogError("usb: " + err.Error())
	}

	// Initialize and register ADC driver
	adcDriver := NewRPAdcDriver()
	if err := adcDriver.Init(core.ADCConfig{}); err != nil {
		core.LogError("adc: " + err.Error())
	}
	core.SetADCDriver(adcDriver)

	board, err := config.LoadConfig(boardJSON)
	if err != nil {
		halt("config: " + err.Error())
	}

	sensors, err := board.NewRegistry(core.MustADC(), i2cBus)
	if err != nil {
		halt("setup: " + err.Error())
	}

	// Keep going on init failure: native pins still read, and an
	// unplugged converter reads as 0 until the board is reset
	if err := sensors.Init(); err != nil {
		core.LogError("init: " + err.Error())
	} else {
		core.LogInfo("sensors ready")
	}

	out := protocol.NewFrameWriter(machine.Serial)
	report := &reportWriter{FrameWriter: out}

	for {
		sensors.WriteValues(report)
		if err := out.Flush(); err != nil {
			reportErrors++
			core.LogError("telemetry: " + err.Error())
		} else {
			reportsSent++
		}
		if n := out.Skipped(); n > 0 {
			core.LogError("telemetry: " + core.Itoa(n) + " values skipped, first: " + out.Err().Error())
		}
		out.Reset()

		time.Sleep(reportInterval)
	}
}

// reportWriter sends values as telemetry and logs each reading it was
// built from.
type reportWriter struct {
	*protocol.FrameWriter
}

func (w *reportWriter) ObserveReading(cfg core.SensorConfig, v core.SensorValue) {
	if !core.IsDebugEnabled() {
		return
	}
	core.DebugPrintln(cfg.Name +
		": value=" + core.Ftoa(v.Value, 3) +
		" mA=" + core.Ftoa(v.MA, 3) +
		" adcValue=" + core.Itoa(v.ADCValue))
}

// halt logs msg and stops; setup errors need a reflash.
func halt(msg string) {
	for {
		core.LogError(msg)
		time.Sleep(5 * time.Second)
	}
}
