package protocol

import (
	"errors"
	"io"
	"math"
)

var (
	ErrFrameTooLong = errors.New("telemetry block exceeds maximum length")
	ErrNotFinite    = errors.New("value is NaN or infinite")
	ErrValueRange   = errors.New("value out of fixed-point range")
)

// EncodeBlock appends one framed block to output with the given sequence.
// payload writes the block contents.
func EncodeBlock(output OutputBuffer, seq uint8, payload func(output OutputBuffer)) {
	cursor := output.CurPosition()

	// Write header (length placeholder and sequence)
	output.Output([]byte{0, MessageDest | (seq & MessageSeqMask)})

	payload(output)

	// Update length field
	changed := len(output.DataSince(cursor))
	output.Update(cursor, uint8(changed+MessageTrailerSize))

	// Calculate and write CRC
	crc := CRC16(output.DataSince(cursor))
	output.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})
}

// EncodeValue converts a sensor value to its fixed-point wire form.
func EncodeValue(v float64) (int32, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	scaled := math.Round(v * ValueScale)
	if scaled < math.MinInt32 || scaled > math.MaxInt32 {
		return 0, ErrValueRange
	}
	return int32(scaled), nil
}

// FrameWriter encodes sensor values as telemetry blocks and writes them to
// an io.Writer on Flush. It implements core.ValueWriter.
//
// A value that cannot be encoded is skipped and the rest of the report is
// still sent. Err returns the first failure since the last Reset and
// Skipped the number of values dropped.
type FrameWriter struct {
	w       io.Writer
	out     ScratchOutput
	seq     uint8
	err     error
	skipped int
}

// NewFrameWriter creates a FrameWriter sending to w.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteValue queues one sensor_value block.
func (f *FrameWriter) WriteValue(name string, value float64) {
	fixed, err := EncodeValue(value)
	if err != nil {
		f.skip(name, err)
		return
	}

	var block ScratchOutput
	EncodeBlock(&block, f.seq, func(output OutputBuffer) {
		EncodeVLQUint(output, MsgSensorValue)
		EncodeVLQString(output, name)
		EncodeVLQInt(output, fixed)
	})
	if len(block.Result()) > MessageLengthMax {
		f.skip(name, ErrFrameTooLong)
		return
	}

	if f.out.Free() < len(block.Result()) {
		// A failed write is recorded; queueing continues with an empty buffer
		f.Flush()
	}
	f.out.Output(block.Result())
	f.seq = (f.seq + 1) & MessageSeqMask
}

func (f *FrameWriter) skip(name string, err error) {
	f.skipped++
	if f.err == nil {
		f.err = &ValueError{Name: name, Err: err}
	}
}

// Flush writes all queued blocks. The queue is emptied even when the write
// fails.
func (f *FrameWriter) Flush() error {
	if f.out.CurPosition() == 0 {
		return nil
	}
	_, err := f.w.Write(f.out.Result())
	f.out.Reset()
	if err != nil && f.err == nil {
		f.err = err
	}
	return err
}

// Err returns the first error seen since the last Reset.
func (f *FrameWriter) Err() error {
	return f.err
}

// Skipped returns the number of values dropped since the last Reset.
func (f *FrameWriter) Skipped() int {
	return f.skipped
}

// Reset drops queued blocks and clears the error and skip count. The
// sequence continues.
func (f *FrameWriter) Reset() {
	f.out.Reset()
	f.err = nil
	f.skipped = 0
}

// ValueError reports a sensor value that could not be encoded.
type ValueError struct {
	Name string
	Err  error
}

func (e *ValueError) Error() string {
	return "sensor " + e.Name + ": " + e.Err.Error()
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
