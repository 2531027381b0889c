package market

import "strings"

// ContractSize is the number of base-currency units in one standard lot.
const ContractSize = 100_000.0

// MinLot is the smallest tradable volume increment.
const MinLot = 0.01

type InstrumentMeta struct {
	Name          string
	BaseCurrency  string
	QuoteCurrency string
	PipSize       float64
}

// PipSize returns the price value of one pip for the given symbol.
// JPY-quoted pairs quote to two decimals, everything else to four.
func PipSize(symbol string) float64 {
	if strings.Contains(symbol, "JPY") {
		return 0.01
	}
	return 0.0001
}

var Instruments = map[string]InstrumentMeta{
	"EURUSD": {Name: "EURUSD", BaseCurrency: "EUR", QuoteCurrency: "USD", PipSize: 0.0001},
	"USDJPY": {Name: "USDJPY", BaseCurrency: "USD", QuoteCurrency: "JPY", PipSize: 0.01},
	"GBPUSD": {Name: "GBPUSD", BaseCurrency: "GBP", QuoteCurrency: "USD", PipSize: 0.0001},
	"USDCHF": {Name: "USDCHF", BaseCurrency: "USD", QuoteCurrency: "CHF", PipSize: 0.0001},
	"USDCAD": {Name: "USDCAD", BaseCurrency: "USD", QuoteCurrency: "CAD", PipSize: 0.0001},
	"AUDUSD": {Name: "AUDUSD", BaseCurrency: "AUD", QuoteCurrency: "USD", PipSize: 0.0001},
	"NZDUSD": {Name: "NZDUSD", BaseCurrency: "NZD", QuoteCurrency: "USD", PipSize: 0.0001},
	"GBPJPY": {Name: "GBPJPY", BaseCurrency: "GBP", QuoteCurrency: "JPY", PipSize: 0.01},
	"USDINR": {Name: "USDINR", BaseCurrency: "USD", QuoteCurrency: "INR", PipSize: 0.0001},
}
