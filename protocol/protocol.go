// Package protocol implements the telemetry block format used to stream
// sensor values from the firmware to a host over a serial link.
//
// The framing follows the Klipper serial protocol: each block is
//
//	[len][0x10|seq][payload...][crc16 hi][crc16 lo][0x7E]
//
// where len counts the whole block and the CRC covers len through payload.
// Payload integers are VLQ encoded.
package protocol

// Version is the telemetry protocol version reported by the tools
const Version = "0.1.0"

// Protocol constants
const (
	MessageMax         = 512 // Scratch buffer size, holds several blocks
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// Message sequence mask
	MessageSeqMask = 0x0F
)

// Message IDs carried as the first VLQ of a payload
const (
	MsgSensorValue = 1 // name=%s value=%i (value in thousandths)
)

// ValueScale is the fixed-point scale of transmitted values.
const ValueScale = 1000

// MaxNameLength is the longest sensor name that fits a sensor_value block
// with a worst-case value: header, message ID, one length byte, five value
// bytes and the trailer.
const MaxNameLength = MessageLengthMax - MessageHeaderSize - MessageTrailerSize - 1 - 1 - 5
