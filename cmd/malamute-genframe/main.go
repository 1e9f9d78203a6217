package main

/*-------------------------------------------------------------------
 *
 * Purpose:     Generate frame observation files with known content
 *		and controlled noise, for testing the decoder.
 *
 *		The message is 77 bits, given as a 0/1 string or
 *		drawn from the seed when omitted.  The checksum and
 *		codeword are built here, so whatever this writes is
 *		decodable in principle - whether it survives the
 *		requested SNR is the decoder's problem.
 *
 *--------------------------------------------------------------------*/

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	malamute "github.com/doismellburning/malamute/src"
)

func main() {
	os.Exit(run())
}

func run() int {
	var message = pflag.StringP("message", "m", "", "Message bits (77 chars of 0/1; default: random from seed).")
	var snr = pflag.Float64P("snr", "s", 10.0, "Per-symbol energy SNR in dB.")
	var seed = pflag.Int64("seed", 1, "Noise (and message) RNG seed.")
	var repeats = pflag.IntP("repeats", "r", 1, "Frame repetitions to emit.")
	var output = pflag.StringP("output", "o", "-", "Output file ('-': stdout).")
	var version = pflag.Bool("version", false, "Print version and exit.")

	pflag.Parse()

	if *version {
		malamute.PrintVersion(false)
		return 0
	}

	var logger = log.New(os.Stderr)

	var rng = rand.New(rand.NewSource(*seed))

	var msgBits []uint8
	if *message != "" {
		var err error
		msgBits, err = malamute.BitsFromString(*message)
		if err != nil {
			logger.Error("bad message", "err", err)
			return 1
		}
		if len(msgBits) != malamute.MSG_BITS {
			logger.Error("bad message length", "got", len(msgBits), "want", malamute.MSG_BITS)
			return 1
		}
	} else {
		msgBits = make([]uint8, malamute.MSG_BITS)
		for i := range msgBits {
			msgBits[i] = uint8(rng.Intn(2))
		}
	}

	var payload, err = malamute.PackPayload(msgBits)
	if err != nil {
		logger.Error("pack", "err", err)
		return 1
	}

	var codeword []uint8
	codeword, err = malamute.StockLDPCCode().Encode(payload)
	if err != nil {
		logger.Error("encode", "err", err)
		return 1
	}

	var layout = malamute.StandardFrameLayout()
	if *repeats > 1 {
		layout = malamute.RepeatedFrameLayout(*repeats)
	}

	var frame malamute.FrameObservations
	frame, err = malamute.SynthesizeFrame(codeword, layout, malamute.AmplitudeForSNR(*snr), rng)
	if err != nil {
		logger.Error("synthesize", "err", err)
		return 1
	}

	var w = os.Stdout
	if *output != "-" {
		w, err = os.Create(*output)
		if err != nil {
			logger.Error("output", "err", err)
			return 1
		}
		defer w.Close()
	}

	fmt.Fprintf(w, "# message %s\n", malamute.BitsString(msgBits))
	fmt.Fprintf(w, "# snr %.1f dB, seed %d, repeats %d\n", *snr, *seed, *repeats)

	if err := malamute.WriteObservations(w, frame); err != nil {
		logger.Error("write", "err", err)
		return 1
	}

	return 0
}
