package protocol

// CRC16 is the CCITT variant used by the frame trailer, processed low
// byte first with an initial value of 0xFFFF.
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b ^= uint8(crc)
		b ^= b << 4
		w := uint16(b)
		crc = (w<<8 | crc>>8) ^ (w >> 4) ^ (w << 3)
	}
	return crc
}

// crcBytes splits crc into the big-endian trailer bytes
func crcBytes(crc uint16) [2]byte {
	return [2]byte{byte(crc >> 8), byte(crc)}
}
