package serial

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	if cfg.Device != "/dev/ttyACM0" {
		t.Errorf("Device = %q", cfg.Device)
	}
	if cfg.Baud != DefaultBaud {
		t.Errorf("Baud = %d, expected %d", cfg.Baud, DefaultBaud)
	}
	if cfg.ReadTimeout <= 0 {
		t.Errorf("ReadTimeout = %d, expected a positive timeout", cfg.ReadTimeout)
	}
}

func TestOpenRejectsBadConfig(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Error("Open(nil) succeeded")
	}
	if _, err := Open(&Config{Baud: DefaultBaud}); err == nil {
		t.Error("Open without device succeeded")
	}
}
