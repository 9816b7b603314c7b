package protocol

import "github.com/cespare/xxhash"

const (
	// Sentinel is written into every byte of an outbound datagram
	Sentinel byte = 200
	// Expected is the value every byte must hold once echoed back
	Expected = Sentinel + 1

	// MaxDatagramSize is the largest UDP payload over IPv4. The pong receive
	// buffer is allocated at this size and the client refuses anything larger.
	MaxDatagramSize = 65507
)

// Fill sets every byte of buf to the sentinel value.
func Fill(buf []byte) {
	for i := range buf {
		buf[i] = Sentinel
	}
}

// Transform increments every byte of buf in place, wrapping at 255.
func Transform(buf []byte) {
	for i := range buf {
		buf[i]++
	}
}

// Validate scans buf and reports the first index that does not hold the
// expected value. ok is true when every byte matches.
func Validate(buf []byte) (index int, ok bool) {
	for i, b := range buf {
		if b != Expected {
			return i, false
		}
	}
	return -1, true
}

// Digest returns a short fingerprint of a payload for diagnostics.
func Digest(buf []byte) uint64 {
	return xxhash.Sum64(buf)
}
