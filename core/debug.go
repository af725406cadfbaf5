package core

// DebugWriter is a function type for writing log lines
type DebugWriter func(string)

var (
	// debugPrintln is the global output function (set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled gates DebugPrintln; errors and info lines always go out
	debugEnabled bool = false
)

// SetDebugWriter sets the platform-specific output function.
// This allows platforms to redirect log output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(s string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message if debug output is enabled
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln("[DEBUG] " + msg)
	}
}

// LogInfo writes an informational message
func LogInfo(msg string) {
	debugPrintln("[INFO] " + msg)
}

// LogError writes an error message
func LogError(msg string) {
	debugPrintln("[ERROR] " + msg)
}
