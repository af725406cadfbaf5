package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"loop420/protocol"
)

// chunkReader returns its chunks one Read at a time, then io.EOF
type chunkReader struct {
	chunks [][]byte
	final  error
	reads  int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	c.reads++
	if len(c.chunks) == 0 {
		if c.final != nil {
			return 0, c.final
		}
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	c.chunks[0] = c.chunks[0][n:]
	if len(c.chunks[0]) == 0 {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func encodeReadings(t *testing.T, pairs ...interface{}) []byte {
	t.Helper()
	var wire bytes.Buffer
	fw := protocol.NewFrameWriter(&wire)
	for i := 0; i < len(pairs); i += 2 {
		fw.WriteValue(pairs[i].(string), pairs[i+1].(float64))
	}
	if err := fw.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	return wire.Bytes()
}

func TestMonitorText(t *testing.T) {
	data := encodeReadings(t, "sen1", 12.0, "sen2", 47.5)
	var out bytes.Buffer

	m := New(bytes.NewReader(data), &out, Options{})
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	want := "sen1 12.000\nsen2 47.500\n"
	if out.String() != want {
		t.Errorf("output = %q, expected %q", out.String(), want)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, expected 2", m.Count())
	}
}

func TestMonitorJSON(t *testing.T) {
	data := encodeReadings(t, "tank", 75.25)
	var out bytes.Buffer

	m := New(bytes.NewReader(data), &out, Options{JSON: true})
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	var rec jsonReading
	if err := json.Unmarshal(out.Bytes(), &rec); err != nil {
		t.Fatalf("output %q is not JSON: %v", out.String(), err)
	}
	if rec.Name != "tank" || rec.Value != 75.25 || rec.Seq != 0 {
		t.Errorf("record = %+v", rec)
	}
}

func TestMonitorSplitReadsAndCorruption(t *testing.T) {
	data := encodeReadings(t, "a", 1.0, "b", 2.0, "c", 3.0)
	data[int(data[0])+2] ^= 0xFF // corrupt block "b"

	half := len(data) / 2
	r := &chunkReader{chunks: [][]byte{data[:half], data[half:]}}
	var out bytes.Buffer

	m := New(r, &out, Options{Verbose: true})
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output lines = %q", lines)
	}
	if !strings.Contains(lines[0], " a 1.000") || !strings.Contains(lines[1], " c 3.000") {
		t.Errorf("output = %q", lines)
	}
	if m.Dropped() == 0 {
		t.Error("Dropped() = 0 after corrupt block")
	}
}

func TestMonitorFollowStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &chunkReader{}
	var out bytes.Buffer

	m := New(readerFunc(func(p []byte) (int, error) {
		if r.reads++; r.reads == 3 {
			cancel()
		}
		return 0, io.EOF
	}), &out, Options{Follow: true})

	if err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, expected context.Canceled", err)
	}
	if r.reads != 3 {
		t.Errorf("reads = %d, expected 3", r.reads)
	}
}

func TestMonitorReadError(t *testing.T) {
	errPort := errors.New("device unplugged")
	m := New(&chunkReader{final: errPort}, io.Discard, Options{Follow: true})

	if err := m.Run(context.Background()); !errors.Is(err, errPort) {
		t.Errorf("Run() = %v, expected wrapped port error", err)
	}
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) {
	return f(p)
}
