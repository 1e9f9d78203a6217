package malamute

/*------------------------------------------------------------------
 *
 * Purpose:	14-bit checksum over the message portion of the
 *		payload.  This is the last line of defence: belief
 *		propagation happily converges onto valid-looking
 *		codewords that were never transmitted, and the
 *		parity checks alone cannot tell.
 *
 * Description:	Bitwise CRC, polynomial 0x2757, zero initial value.
 *		The 77 message bits are extended with 5 zero bits to
 *		82 before division; the result is stored MSB first
 *		in payload bits 77..90.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
)

const crcPolynomial = 0x2757
const crcPadBits = 5

func crc14(bits []uint8) uint16 {
	var reg uint16

	for _, b := range bits {
		var msb = (reg >> (CRC_BITS - 1)) & 1
		reg = (reg << 1) & 0x3fff
		if msb^uint16(b&1) != 0 {
			reg ^= crcPolynomial
		}
	}

	return reg
}

// MessageChecksum computes the checksum for MSG_BITS message bits.
func MessageChecksum(message []uint8) uint16 {
	var padded = make([]uint8, 0, MSG_BITS+crcPadBits)
	padded = append(padded, message...)
	padded = append(padded, make([]uint8, crcPadBits)...)

	return crc14(padded)
}

/*------------------------------------------------------------------
 *
 * Name:	ValidatePayload
 *
 * Purpose:	Does the checksum embedded in a candidate payload
 *		match its message bits?
 *
 * Description:	A mismatch is a false convergence - routine at the
 *		noise levels we operate at, and the caller's cue to
 *		try the next pass, not an error.
 *
 *		The all-zeros payload is rejected outright.  A slot
 *		of pure noise (or a degenerate all-equal energy
 *		frame) yields zero likelihoods everywhere, the zero
 *		codeword satisfies every parity check, and a zero
 *		message carries a zero checksum.  Nobody transmits
 *		the empty message; reporting it would be a false
 *		success on dead air.
 *
 *------------------------------------------------------------------*/

func ValidatePayload(payload []uint8) bool {
	if len(payload) != LDPC_K {
		return false
	}

	var nonzero = false
	for _, b := range payload[:MSG_BITS] {
		if b&1 != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		return false
	}

	var want = MessageChecksum(payload[:MSG_BITS])

	var got uint16
	for _, b := range payload[MSG_BITS:] {
		got = got<<1 | uint16(b&1)
	}

	return got == want
}

// PackPayload appends the checksum to MSG_BITS message bits,
// producing the LDPC_K bit payload handed to the encoder.
func PackPayload(message []uint8) ([]uint8, error) {
	if len(message) != MSG_BITS {
		return nil, fmt.Errorf("message has %d bits, want %d", len(message), MSG_BITS)
	}

	var payload = make([]uint8, 0, LDPC_K)
	for _, b := range message {
		payload = append(payload, b&1)
	}

	var crc = MessageChecksum(message)
	for i := CRC_BITS - 1; i >= 0; i-- {
		payload = append(payload, uint8((crc>>i)&1))
	}

	return payload, nil
}
