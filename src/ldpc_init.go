package malamute

/*------------------------------------------------------------------
 *
 * Purpose:	Fixed (174,91) code definition, built once at start
 *		and shared read-only by every decode attempt.
 *
 * Description:	Systematic repeat-accumulate construction.  Check j
 *		covers a small fixed set of payload bits plus parity
 *		bits j and j-1, so the parity bits form an
 *		accumulator chain and encoding is a single forward
 *		recursion over the same table the decoder checks
 *		against.
 *
 *		The table below is the stock code.  Deployments that
 *		must interoperate with a different (174,91) code can
 *		load their own row table through NewLDPCCode; nothing
 *		downstream assumes this particular one.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
)

// Payload bits feeding each parity check, one row per check.
var stockParityRows = [LDPC_M][3]int{
	{1, 47, 74}, {3, 6, 52}, {5, 29, 57}, {7, 52, 62},
	{9, 67, 75}, {7, 11, 72}, {13, 30, 77}, {15, 53, 82},
	{17, 76, 87}, {1, 8, 19}, {6, 21, 31}, {11, 23, 54},
	{16, 25, 77}, {9, 21, 27}, {26, 29, 32}, {31, 55, 62},
	{33, 36, 78}, {10, 35, 41}, {33, 37, 46}, {39, 51, 56},
	{41, 56, 79}, {11, 43, 61}, {34, 45, 66}, {47, 57, 71},
	{49, 76, 80}, {12, 51, 81}, {35, 53, 86}, {0, 55, 58},
	{5, 57, 81}, {10, 13, 59}, {15, 36, 61}, {20, 59, 63},
	{25, 65, 82}, {14, 30, 67}, {35, 37, 69}, {40, 60, 71},
	{45, 73, 83}, {15, 50, 75}, {38, 55, 77}, {60, 61, 79},
	{65, 81, 84}, {16, 70, 83}, {39, 75, 85}, {62, 80, 87},
	{44, 85, 89}, {0, 17, 90}, {2, 4, 40}, {4, 9, 63},
	{6, 14, 86}, {8, 18, 19}, {10, 24, 41}, {12, 29, 64},
	{14, 34, 87}, {16, 19, 39}, {18, 42, 44}, {20, 49, 65},
	{22, 54, 88}, {20, 24, 59}, {26, 43, 64}, {28, 66, 69},
	{30, 74, 89}, {21, 32, 79}, {34, 44, 84}, {36, 67, 89},
	{3, 38, 90}, {8, 22, 40}, {13, 42, 45}, {18, 44, 68},
	{0, 23, 46}, {23, 28, 48}, {33, 46, 50}, {38, 52, 69},
	{1, 43, 54}, {24, 48, 56}, {47, 53, 58}, {58, 60, 70},
	{2, 62, 63}, {25, 64, 68}, {48, 66, 73}, {68, 71, 78},
	{3, 70, 83}, {26, 72, 88}, {2, 49, 74},
}

// LDPCCode is the bit/check incidence relation in both directions,
// precomputed so the iteration loop never searches.
type LDPCCode struct {
	rows [][]int // payload bits per check, as supplied

	checkBits  [][]int       // checkBits[j]: codeword bit indices on check j
	bitChecks  [][]checkSlot // bitChecks[i]: where codeword bit i appears
	totalEdges int
}

// checkSlot locates one edge from the bit side: check number and
// the bit's position within that check's bit list.
type checkSlot struct {
	check int
	slot  int
}

/*------------------------------------------------------------------
 *
 * Name:	NewLDPCCode
 *
 * Purpose:	Build the incidence structure for a repeat-accumulate
 *		row table.  Rows must index payload bits only; the
 *		accumulator edges are implied.
 *
 * Errors:	Malformed table (wrong row count, index out of
 *		range, duplicate index within a row).  This is a
 *		configuration error and fatal at setup.
 *
 *------------------------------------------------------------------*/

func NewLDPCCode(rows [][]int) (*LDPCCode, error) {
	if len(rows) != LDPC_M {
		return nil, fmt.Errorf("parity table has %d rows, want %d", len(rows), LDPC_M)
	}

	var c = &LDPCCode{
		rows:      make([][]int, LDPC_M),
		checkBits: make([][]int, LDPC_M),
		bitChecks: make([][]checkSlot, LDPC_N),
	}

	for j, row := range rows {
		if len(row) == 0 {
			return nil, fmt.Errorf("parity table row %d is empty", j)
		}

		var seen = make(map[int]bool, len(row))
		for _, i := range row {
			if i < 0 || i >= LDPC_K {
				return nil, fmt.Errorf("parity table row %d: payload bit %d out of range", j, i)
			}
			if seen[i] {
				return nil, fmt.Errorf("parity table row %d: payload bit %d repeated", j, i)
			}
			seen[i] = true
		}

		c.rows[j] = append([]int(nil), row...)

		// Check j = payload row + parity j + parity j-1.
		var bits = append([]int(nil), row...)
		bits = append(bits, LDPC_K+j)
		if j > 0 {
			bits = append(bits, LDPC_K+j-1)
		}
		c.checkBits[j] = bits
	}

	for j, bits := range c.checkBits {
		for slot, i := range bits {
			c.bitChecks[i] = append(c.bitChecks[i], checkSlot{check: j, slot: slot})
			c.totalEdges++
		}
	}

	return c, nil
}

// StockLDPCCode returns the shared instance of the built-in code.
func StockLDPCCode() *LDPCCode {
	return stockCode
}

var stockCode = mustStockCode()

func mustStockCode() *LDPCCode {
	var rows = make([][]int, LDPC_M)
	for j := range stockParityRows {
		rows[j] = stockParityRows[j][:]
	}

	var c, err = NewLDPCCode(rows)
	if err != nil {
		panic(err) // table literal above is broken
	}
	return c
}

// CheckParity reports whether every parity check is satisfied.
func (c *LDPCCode) CheckParity(codeword []uint8) bool {
	if len(codeword) != LDPC_N {
		return false
	}

	for _, bits := range c.checkBits {
		var sum uint8
		for _, i := range bits {
			sum ^= codeword[i] & 1
		}
		if sum != 0 {
			return false
		}
	}

	return true
}

/*------------------------------------------------------------------
 *
 * Name:	Encode
 *
 * Purpose:	Payload bits -> full codeword.  Forward recursion
 *		over the accumulator: p[0] covers row 0, each later
 *		p[j] is p[j-1] plus row j.
 *
 * Inputs:	payload - LDPC_K bits, one per byte, values 0/1.
 *
 * Returns:	LDPC_N bit codeword, payload first.
 *
 *------------------------------------------------------------------*/

func (c *LDPCCode) Encode(payload []uint8) ([]uint8, error) {
	if len(payload) != LDPC_K {
		return nil, fmt.Errorf("payload has %d bits, want %d", len(payload), LDPC_K)
	}

	var codeword = make([]uint8, 0, LDPC_N)
	codeword = append(codeword, payload...)

	var p uint8
	for j, row := range c.rows {
		var s = p
		if j == 0 {
			s = 0
		}
		for _, i := range row {
			s ^= payload[i] & 1
		}
		p = s
		codeword = append(codeword, p)
	}

	return codeword, nil
}
