package protocol

// Reading is one decoded sensor_value block.
type Reading struct {
	Seq   uint8
	Name  string
	Value float64
}

// Decoder reassembles telemetry blocks from a byte stream. Bytes are fed
// with Write and complete readings are taken with Next. On a bad length,
// sequence byte, trailer or CRC the decoder drops input up to the next sync
// byte and carries on.
type Decoder struct {
	buf          []byte
	synchronized bool
	dropped      int
}

// NewDecoder creates a decoder that expects the stream to start at a block
// boundary.
func NewDecoder() *Decoder {
	return &Decoder{synchronized: true}
}

// Write appends stream data. It never fails.
func (d *Decoder) Write(p []byte) (int, error) {
	d.buf = append(d.buf, p...)
	return len(p), nil
}

// Dropped returns how many corrupt or unknown blocks have been discarded.
func (d *Decoder) Dropped() int {
	return d.dropped
}

// Next returns the next complete reading, or false if more data is needed.
func (d *Decoder) Next() (Reading, bool) {
	for len(d.buf) > 0 {
		if !d.synchronized {
			// Look for sync byte to resynchronize
			syncPos := -1
			for i, b := range d.buf {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				d.buf = d.buf[:0]
				break
			}
			d.buf = d.buf[syncPos+1:]
			d.synchronized = true
			continue
		}

		// Skip leading sync bytes
		if d.buf[0] == MessageValueSync {
			d.buf = d.buf[1:]
			continue
		}

		if len(d.buf) < MessageLengthMin {
			break
		}

		msgLen := int(d.buf[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.desync()
			continue
		}

		seq := d.buf[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.desync()
			continue
		}

		// Wait for full block
		if len(d.buf) < msgLen {
			break
		}

		if d.buf[msgLen-MessageTrailerSync] != MessageValueSync {
			d.desync()
			continue
		}

		frameCRC := uint16(d.buf[msgLen-MessageTrailerCRC])<<8 |
			uint16(d.buf[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(d.buf[:msgLen-MessageTrailerSize]) {
			d.desync()
			continue
		}

		frame := d.buf[MessageHeaderSize : msgLen-MessageTrailerSize]
		d.buf = d.buf[msgLen:]

		r, ok := parseSensorValue(frame)
		if !ok {
			d.dropped++
			continue
		}
		r.Seq = seq & MessageSeqMask
		return r, true
	}

	d.compact()
	return Reading{}, false
}

func (d *Decoder) desync() {
	d.synchronized = false
	d.dropped++
	// Skip the current length byte so a sync byte inside it is not reused
	d.buf = d.buf[1:]
}

// compact moves the pending tail to the start of the buffer so it does
// not grow without bound.
func (d *Decoder) compact() {
	if cap(d.buf) > 4*MessageMax && len(d.buf) < MessageMax {
		d.buf = append([]byte(nil), d.buf...)
	}
}

func parseSensorValue(frame []byte) (Reading, bool) {
	id, err := DecodeVLQUint(&frame)
	if err != nil || id != MsgSensorValue {
		return Reading{}, false
	}
	name, err := DecodeVLQString(&frame)
	if err != nil {
		return Reading{}, false
	}
	fixed, err := DecodeVLQInt(&frame)
	if err != nil || len(frame) != 0 {
		return Reading{}, false
	}
	return Reading{Name: name, Value: float64(fixed) / ValueScale}, true
}
