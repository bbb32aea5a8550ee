// Package history keeps the paging and expansion state of the transaction
// list on the home page.
package history

import (
	"fmt"
	"time"
)

// DefaultPageSize is how many transactions are shown before "load more".
const DefaultPageSize = 50

// Transaction is one entry of the wallet's history. Amount is signed in
// atomic units: negative for outgoing transfers.
type Transaction struct {
	Hash      string    `json:"hash"`
	Amount    int64     `json:"amount"`
	Fee       uint64    `json:"fee"`
	Height    uint64    `json:"height"`
	Timestamp time.Time `json:"timestamp"`
	PaymentID string    `json:"payment_id,omitempty"`
}

// Incoming reports whether the transaction added funds.
func (t Transaction) Incoming() bool { return t.Amount > 0 }

// Confirmed reports whether the transaction is in a block.
func (t Transaction) Confirmed() bool { return t.Height > 0 }

// FormatAmount renders atomic units with the given number of decimals.
func FormatAmount(atomic int64, decimals int, ticker string) string {
	sign := ""
	if atomic < 0 {
		sign = "-"
		atomic = -atomic
	}
	div := int64(1)
	for range decimals {
		div *= 10
	}
	if decimals == 0 {
		return fmt.Sprintf("%s%d %s", sign, atomic, ticker)
	}
	return fmt.Sprintf("%s%d.%0*d %s", sign, atomic/div, decimals, atomic%div, ticker)
}

// View is the list state. The zero value is not usable; call New.
type View struct {
	pageSize  int
	displayed int
	expanded  map[string]bool
}

// New returns a view showing one page.
func New(pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{
		pageSize:  pageSize,
		displayed: pageSize,
		expanded:  make(map[string]bool),
	}
}

// Displayed is the current row limit.
func (v *View) Displayed() int { return v.displayed }

// LoadMore extends the limit by one page.
func (v *View) LoadMore() { v.displayed += v.pageSize }

// Reset goes back to one page and collapses every row. Called when a
// wallet is opened or closed.
func (v *View) Reset() {
	v.displayed = v.pageSize
	clear(v.expanded)
}

// OnNewTransaction grows the limit by one so the rows already on screen
// stay visible when a new transaction is prepended.
func (v *View) OnNewTransaction() { v.displayed++ }

// Toggle expands or collapses the row for hash.
func (v *View) Toggle(hash string) {
	if v.expanded[hash] {
		delete(v.expanded, hash)
		return
	}
	v.expanded[hash] = true
}

// Expanded reports whether the row for hash is open.
func (v *View) Expanded(hash string) bool { return v.expanded[hash] }

// Visible returns the first Displayed() transactions of txs, newest first
// as given.
func (v *View) Visible(txs []Transaction) []Transaction {
	if len(txs) <= v.displayed {
		return txs
	}
	return txs[:v.displayed]
}

// HasMore reports whether txs has rows beyond the limit.
func (v *View) HasMore(txs []Transaction) bool { return len(txs) > v.displayed }

// Expandable reports whether the list is longer than one page, in which case
// the shell offers "back to first page" next to "load more".
func (v *View) Expandable() bool { return v.displayed > v.pageSize }
