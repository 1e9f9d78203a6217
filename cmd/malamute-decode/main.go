package main

/*-------------------------------------------------------------------
 *
 * Purpose:     Offline decode fixture.  Takes frame observation
 *		files instead of a live demodulator, so decoder
 *		behaviour can be studied under controlled and
 *		reproducible conditions.
 *
 *		Pairs with malamute-genframe:
 *
 *		  malamute-genframe --seed 7 --snr 10 > frame.obs
 *		  malamute-decode frame.obs
 *
 *--------------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	malamute "github.com/doismellburning/malamute/src"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath = pflag.StringP("config", "c", "", "Decoder config YAML (default: built-in pass list).")
	var repeats = pflag.IntP("repeats", "r", 1, "Frame repetitions in the capture.")
	var workers = pflag.IntP("workers", "w", 0, "Worker pool size (0: from config).")
	var verbose = pflag.BoolP("verbose", "v", false, "Per-pass debug output.")
	var logPath = pflag.StringP("log", "L", "", "Append successful decodes to this CSV file.")
	var version = pflag.Bool("version", false, "Print version and exit.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [file.obs ...]\n\nReads '-' or stdin when no files are given.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *version {
		malamute.PrintVersion(*verbose)
		return 0
	}

	var logger = log.New(os.Stderr)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var cfg = malamute.DefaultDecoderConfig()
	if *configPath != "" {
		var err error
		cfg, err = malamute.LoadDecoderConfig(*configPath)
		if err != nil {
			logger.Error("config", "err", err)
			return 1
		}
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	var layout = malamute.StandardFrameLayout()
	if *repeats > 1 {
		layout = malamute.RepeatedFrameLayout(*repeats)
	}

	var decoder, err = malamute.NewMultiPassDecoder(cfg, layout, malamute.WithLogger(logger))
	if err != nil {
		logger.Error("setup", "err", err)
		return 1
	}

	var files = pflag.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}

	var decodeLog = malamute.NewDecodeLog(*logPath)
	defer decodeLog.Close()

	var failures = 0
	for _, name := range files {
		if err := decodeFile(decoder, logger, decodeLog, name); err != nil {
			logger.Error("decode", "file", name, "err", err)
			failures++
		}
	}

	if failures > 0 {
		return 1
	}
	return 0
}

func decodeFile(decoder *malamute.MultiPassDecoder, logger *log.Logger, decodeLog *malamute.DecodeLog, name string) error {
	var r io.Reader = os.Stdin
	if name != "-" {
		var f, err = os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var frame, err = malamute.ReadObservations(r)
	if err != nil {
		return err
	}

	var res *malamute.DecodeResult
	res, err = decoder.Decode(context.Background(), frame)
	if err != nil {
		return err
	}

	if res == nil {
		logger.Info("no decode", "file", name)
		fmt.Println("NO DECODE")
		return nil
	}

	logger.Info("decoded",
		"file", name,
		"pass", res.Pass,
		"passIndex", res.PassIndex,
		"iterations", res.Iterations)

	if err := decodeLog.Write(res); err != nil {
		logger.Error("log", "err", err)
	}

	// Message bits only; turning them into text is the
	// unpacker's job, not ours.
	fmt.Println(malamute.BitsString(res.Message()))

	return nil
}
