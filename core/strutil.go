package core

import "math"

// itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	// Count digits
	temp := n
	digits := 0
	for temp > 0 {
		digits++
		temp /= 10
	}

	// Add space for negative sign
	if negative {
		digits++
	}

	// Build string from right to left
	buf := make([]byte, digits)
	pos := digits - 1

	for n > 0 {
		buf[pos] = byte('0' + n%10)
		n /= 10
		pos--
	}

	if negative {
		buf[0] = '-'
	}

	return string(buf)
}

// Itoa is itoa for target code that must not pull in fmt or strconv.
func Itoa(n int) string {
	return itoa(n)
}

// Ftoa formats f with prec digits after the decimal point, rounding half
// away from zero. It covers the range of sensor values; magnitudes beyond
// 1e15 lose precision.
func Ftoa(f float64, prec int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}

	negative := f < 0
	if negative {
		f = -f
	}

	scale := math.Pow(10, float64(prec))
	scaled := int64(math.Floor(f*scale + 0.5))
	whole := scaled / int64(scale)
	frac := scaled % int64(scale)

	s := itoa(int(whole))
	if prec > 0 {
		digits := itoa(int(frac))
		for len(digits) < prec {
			digits = "0" + digits
		}
		s += "." + digits
	}
	if negative && scaled != 0 {
		s = "-" + s
	}
	return s
}
