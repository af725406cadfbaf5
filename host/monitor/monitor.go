// Package monitor reads telemetry blocks from a serial port and reports
// the decoded sensor values.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"loop420/protocol"
)

// Options controls a Monitor.
type Options struct {
	// Follow keeps reading after an empty read (io.EOF), which is how a
	// serial port with a read timeout reports an idle line.
	Follow bool

	// JSON prints one JSON object per reading instead of "name value".
	JSON bool

	// Verbose adds the block sequence and dropped block count.
	Verbose bool
}

// Monitor decodes a telemetry stream.
type Monitor struct {
	port    io.Reader
	out     io.Writer
	opts    Options
	decoder *protocol.Decoder
	count   int
}

// New creates a monitor reading from port and printing to out.
func New(port io.Reader, out io.Writer, opts Options) *Monitor {
	return &Monitor{
		port:    port,
		out:     out,
		opts:    opts,
		decoder: protocol.NewDecoder(),
	}
}

// jsonReading is the -json output record
type jsonReading struct {
	Seq     uint8   `json:"seq"`
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Dropped int     `json:"dropped,omitempty"`
}

// Run reads until ctx is done, the port returns an error, or (without
// Follow) the stream ends. The end of the stream is not an error.
func (m *Monitor) Run(ctx context.Context) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := m.port.Read(buf)
		if n > 0 {
			m.decoder.Write(buf[:n])
			if perr := m.drain(); perr != nil {
				return perr
			}
		}

		if errors.Is(err, io.EOF) {
			if m.opts.Follow {
				continue
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("read telemetry: %w", err)
		}
	}
}

// Count returns the number of readings printed.
func (m *Monitor) Count() int {
	return m.count
}

// Dropped returns the number of corrupt blocks skipped.
func (m *Monitor) Dropped() int {
	return m.decoder.Dropped()
}

func (m *Monitor) drain() error {
	for {
		r, ok := m.decoder.Next()
		if !ok {
			return nil
		}
		if err := m.print(r); err != nil {
			return err
		}
		m.count++
	}
}

func (m *Monitor) print(r protocol.Reading) error {
	if m.opts.JSON {
		rec := jsonReading{Seq: r.Seq, Name: r.Name, Value: r.Value}
		if m.opts.Verbose {
			rec.Dropped = m.decoder.Dropped()
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(m.out, string(line))
		return err
	}

	value := strconv.FormatFloat(r.Value, 'f', 3, 64)
	var err error
	if m.opts.Verbose {
		_, err = fmt.Fprintf(m.out, "[%2d] %s %s (dropped %d)\n", r.Seq, r.Name, value, m.decoder.Dropped())
	} else {
		_, err = fmt.Fprintf(m.out, "%s %s\n", r.Name, value)
	}
	return err
}
