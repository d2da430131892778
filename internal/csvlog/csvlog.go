// Package csvlog provides the append-only CSV sinks for Stage-1 and
// Stage-2 output: the spread-signal log and the confirmed-signal log.
// Each writer owns exactly one underlying file and serializes writes with
// a mutex, which is sufficient since each stage has exactly one writer.
package csvlog

import (
	"encoding/csv"
	"os"
	"sync"
	"time"

	spreaddomain "github.com/fd1az/spreadscanner/business/spread/domain"
)

// SpreadSignalWriter appends rows to the Stage-1 spread-signal log.
type SpreadSignalWriter struct {
	mu   sync.Mutex
	f    *os.File
	w    *csv.Writer
}

var spreadSignalHeader = []string{
	"ts_utc", "pair", "direction", "buy_exchange", "sell_exchange",
	"buy_price", "sell_price", "spread_pct",
}

// OpenSpreadSignalWriter opens (creating if necessary) the CSV file at
// path, writing the header only if the file is new/empty.
func OpenSpreadSignalWriter(path string) (*SpreadSignalWriter, error) {
	f, w, err := openAppendCSV(path, spreadSignalHeader)
	if err != nil {
		return nil, err
	}
	return &SpreadSignalWriter{f: f, w: w}, nil
}

// Write appends one row derived from a Stage-1 Candidate.
func (s *SpreadSignalWriter) Write(c spreaddomain.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buyQuote, sellQuote := c.AQuote, c.BQuote
	if c.BuyVenue == c.B {
		buyQuote, sellQuote = c.BQuote, c.AQuote
	}

	row := []string{
		c.TsUTC.Format(time.RFC3339),
		string(c.Pair),
		c.BestDirection(),
		string(c.BuyVenue),
		string(c.SellVenue),
		buyQuote.Ask.String(),
		sellQuote.Bid.String(),
		c.BestSpreadPct.String(),
	}
	if err := s.w.Write(row); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

// Close flushes and closes the underlying file.
func (s *SpreadSignalWriter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Flush()
	return s.f.Close()
}

func openAppendCSV(path string, header []string) (*os.File, *csv.Writer, error) {
	_, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(header); err != nil {
			f.Close()
			return nil, nil, err
		}
		w.Flush()
	}

	return f, w, nil
}
