// Package protocol frames the telemetry link between the rig and a host.
//
// A frame is [len][seq][payload...][crc hi][crc lo][0x7E]. len counts the
// whole frame, seq carries 0x10 in the high nibble and a 4-bit sequence
// number, and the CRC covers len, seq and payload. Integers in the
// payload are VLQ encoded.
package protocol

const (
	FrameHeaderSize  = 2
	FrameTrailerSize = 3
	FrameMinSize     = FrameHeaderSize + FrameTrailerSize
	FrameMaxSize     = 64
	PayloadMax       = FrameMaxSize - FrameMinSize

	SyncByte = 0x7E
	SeqDest  = 0x10
	SeqMask  = 0x0F

	// OutputBufferSize holds several frames between flushes
	OutputBufferSize = 512
)

// NextSeq returns the sequence number following seq.
func NextSeq(seq uint8) uint8 {
	return ((seq + 1) & SeqMask) | SeqDest
}
