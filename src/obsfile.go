package malamute

/*------------------------------------------------------------------
 *
 * Purpose:	Plain text interchange format for frame
 *		observations: one line per symbol interval, eight
 *		whitespace separated energies, '#' starts a
 *		comment.  What genframe writes and the offline
 *		decoder reads.
 *
 *------------------------------------------------------------------*/

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

func ReadObservations(r io.Reader) (FrameObservations, error) {
	var frame FrameObservations

	var scanner = bufio.NewScanner(r)
	var lineno = 0
	for scanner.Scan() {
		lineno++

		var line = scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		var fields = strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != NUM_TONES {
			return nil, fmt.Errorf("line %d: %d energies, want %d", lineno, len(fields), NUM_TONES)
		}

		var sym = make(SymbolObservation, NUM_TONES)
		for t, f := range fields {
			var v, err = strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad energy %q: %w", lineno, f, err)
			}
			if v < 0 {
				return nil, fmt.Errorf("line %d: negative energy %v", lineno, v)
			}
			sym[t] = v
		}
		frame = append(frame, sym)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return frame, nil
}

func WriteObservations(w io.Writer, frame FrameObservations) error {
	var bw = bufio.NewWriter(w)

	for _, sym := range frame {
		for t, e := range sym {
			if t > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.FormatFloat(e, 'g', -1, 64)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}
