package forecast

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

var ledgerHeader = []string{
	"index",
	"year",
	"attach_rate_pct",
	"margin_a",
	"margin_b",
	"cashflow",
	"discount_factor",
	"present_value",
	"cum_cashflow",
	"cum_present_value",
}

// WriteLedgerCSV writes the ledger with money columns fixed to cents.
func WriteLedgerCSV(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)
	if err := w.Write(ledgerHeader); err != nil {
		return err
	}
	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			r.Year,
			fmtRate(r.AttachRatePct),
			fmtMoney(r.MarginA),
			fmtMoney(r.MarginB),
			fmtMoney(r.Cashflow),
			fmtRate(r.DiscountFactor),
			fmtMoney(r.PresentValue),
			fmtMoney(r.CumCashflow),
			fmtMoney(r.CumPresentValue),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteLedgerCSVFile writes the ledger to path, replacing any existing file.
func WriteLedgerCSVFile(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteLedgerCSV(f, ledger); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtMoney(x float64) string {
	if s, ok := nonFinite(x); ok {
		return s
	}
	return decimal.NewFromFloat(x).StringFixed(2)
}

func fmtRate(x float64) string {
	if s, ok := nonFinite(x); ok {
		return s
	}
	return decimal.NewFromFloat(x).StringFixed(6)
}

// decimal cannot represent NaN or ±Inf.
func nonFinite(x float64) (string, bool) {
	switch {
	case math.IsNaN(x):
		return "NaN", true
	case math.IsInf(x, 1):
		return "+Inf", true
	case math.IsInf(x, -1):
		return "-Inf", true
	}
	return "", false
}
