package halfkay

// Packet layouts per spec.md §4.5. All packets are 1 + header + block_size
// bytes, byte 0 is the HID report id (always 0), and unused header/payload
// bytes are zero.
const (
	v1HeaderSize = 2
	v2HeaderSize = 2
	v3HeaderSize = 64 // padded; the address itself only occupies 3 bytes
)

// BuildPacket formats one HalfKay write block for the given protocol
// version, destination address, and payload. data may be shorter than
// blockSize; the remainder of the payload is zero-padded (spec.md §4.5,
// §8: "final packet may be short").
func BuildPacket(version int, addr uint32, data []byte, blockSize int) []byte {
	switch version {
	case 1:
		pkt := make([]byte, 1+v1HeaderSize+blockSize)
		pkt[1] = byte(addr)
		pkt[2] = byte(addr >> 8)
		copy(pkt[1+v1HeaderSize:], data)
		return pkt
	case 2:
		pkt := make([]byte, 1+v2HeaderSize+blockSize)
		pkt[1] = byte(addr >> 8)
		pkt[2] = byte(addr >> 16)
		copy(pkt[1+v2HeaderSize:], data)
		return pkt
	default: // 3
		pkt := make([]byte, 1+v3HeaderSize+blockSize)
		pkt[1] = byte(addr)
		pkt[2] = byte(addr >> 8)
		pkt[3] = byte(addr >> 16)
		copy(pkt[1+v3HeaderSize:], data)
		return pkt
	}
}
