package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// WriteCSV writes txs with a header row. Amounts are formatted with
// decimals places.
func WriteCSV(w io.Writer, txs []Transaction, decimals int, ticker string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "hash", "amount", "fee", "height", "payment_id"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		date := ""
		if !tx.Timestamp.IsZero() {
			date = tx.Timestamp.UTC().Format(time.RFC3339)
		}
		row := []string{
			date,
			tx.Hash,
			FormatAmount(tx.Amount, decimals, ticker),
			FormatAmount(int64(tx.Fee), decimals, ticker),
			strconv.FormatUint(tx.Height, 10),
			tx.PaymentID,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", tx.Hash, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
