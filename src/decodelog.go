package malamute

/*------------------------------------------------------------------
 *
 * Purpose:	Save successful decodes to a log file.
 *
 * Description: Rather than only printing message bits to stdout,
 *		write separated properties into CSV format for easy
 *		reading and later processing.
 *
 *		The file is opened on the first write and kept open.
 *		We don't open/close for every new item.  Typically
 *		logrotate would be used to keep size under control.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

type DecodeLog struct {
	mu   sync.Mutex
	path string
	fp   *os.File
}

/*------------------------------------------------------------------
 *
 * Function:	NewDecodeLog
 *
 * Purpose:	Initialization at start of application.
 *
 * Inputs:	path	- Log file name.
 *			  Empty string disables the feature.
 *
 *------------------------------------------------------------------*/

func NewDecodeLog(path string) *DecodeLog {
	return &DecodeLog{path: path}
}

/*------------------------------------------------------------------
 *
 * Function:	Write
 *
 * Purpose:	Save one decode to the log file.
 *
 * Inputs:	res	- Result of a successful decode.
 *
 * Description:	Open for append if not already open.  A header
 *		suitable for importing into a spreadsheet is written
 *		only if this will be the first line.
 *
 *------------------------------------------------------------------*/

func (dl *DecodeLog) Write(res *DecodeResult) error {
	if dl == nil || len(dl.path) == 0 || res == nil {
		return nil
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	var now = time.Now().UTC()

	if dl.fp == nil {
		// See if file already exists and not empty.
		// This is used later to write a header if it did not exist already.

		var stat, statErr = os.Stat(dl.path)
		var alreadyThere = statErr == nil && stat.Size() > 0

		var f, openErr = os.OpenFile(dl.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644)
		if openErr != nil {
			return fmt.Errorf("can't open log file %q for write: %w", dl.path, openErr)
		}

		dl.fp = f

		if !alreadyThere {
			fmt.Fprintf(dl.fp, "utime,isotime,pass,combine,scale,iterations,message\n")
		}
	}

	var w = csv.NewWriter(dl.fp)

	var record = []string{
		strconv.FormatInt(now.Unix(), 10),
		now.Format(time.RFC3339),
		strconv.Itoa(res.PassIndex),
		strconv.Itoa(res.Pass.CombineCount),
		strconv.FormatFloat(res.Pass.Scale, 'g', -1, 64),
		strconv.Itoa(res.Iterations),
		BitsString(res.Message()),
	}

	if err := w.Write(record); err != nil {
		return fmt.Errorf("can't write to log file %q: %w", dl.path, err)
	}

	w.Flush()

	return w.Error()
}

/*------------------------------------------------------------------
 *
 * Function:	Close
 *
 * Purpose:	Close log file at end of application.
 *
 *------------------------------------------------------------------*/

func (dl *DecodeLog) Close() error {
	if dl == nil {
		return nil
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	if dl.fp == nil {
		return nil
	}

	var err = dl.fp.Close()
	dl.fp = nil

	return err
}
