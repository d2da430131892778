package csvlog

import (
	"encoding/csv"
	"os"
	"sync"
	"time"

	depthdomain "github.com/fd1az/spreadscanner/business/depth/domain"
)

// ConfirmedSignalWriter appends rows to the Stage-2 confirmed-signal log.
// Only confirmed DepthResults are written; rejections are logged, not
// persisted here.
type ConfirmedSignalWriter struct {
	mu sync.Mutex
	f  *os.File
	w  *csv.Writer
}

var confirmedSignalHeader = []string{
	"ts_utc", "pair", "direction", "buy_exchange", "sell_exchange",
	"exec_notional_usdt", "exec_buy_price", "exec_sell_price", "exec_spread_pct",
}

// OpenConfirmedSignalWriter opens (creating if necessary) the CSV file at
// path, writing the header only if the file is new/empty.
func OpenConfirmedSignalWriter(path string) (*ConfirmedSignalWriter, error) {
	f, w, err := openAppendCSV(path, confirmedSignalHeader)
	if err != nil {
		return nil, err
	}
	return &ConfirmedSignalWriter{f: f, w: w}, nil
}

// Write appends one row for a confirmed DepthResult. Callers should not
// call this for rejected results.
func (c *ConfirmedSignalWriter) Write(r depthdomain.DepthResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	direction := string(r.BuyVenue) + "->" + string(r.SellVenue)
	row := []string{
		r.TsUTC.Format(time.RFC3339),
		string(r.Pair),
		direction,
		string(r.BuyVenue),
		string(r.SellVenue),
		r.ExecNotionalUSDT.String(),
		r.ExecBuyPrice.String(),
		r.ExecSellPrice.String(),
		r.ExecSpreadPctNet.String(),
	}
	if err := c.w.Write(row); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

// Close flushes and closes the underlying file.
func (c *ConfirmedSignalWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w.Flush()
	return c.f.Close()
}
