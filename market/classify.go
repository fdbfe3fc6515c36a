package market

import "strings"

var (
	indexTokens  = []string{"US500", "US30", "NAS100", "USTEC", "DE30", "DE40", "GER40", "UK100", "JP225", "SPX", "DJ30"}
	goldTokens   = []string{"XAU", "GOLD"}
	cryptoTokens = []string{"BTC", "ETH", "CRYPTO"}
)

// Classify maps a symbol name to an instrument category using substring
// matching on the uppercased symbol. Categories are checked in priority
// order (index, gold, JPY cross, crypto) and anything unmatched falls back
// to ForexMajor, so classification is total.
func Classify(symbol string) Category {
	s := strings.ToUpper(symbol)

	for _, tok := range indexTokens {
		if strings.Contains(s, tok) {
			return Index
		}
	}
	for _, tok := range goldTokens {
		if strings.Contains(s, tok) {
			return Gold
		}
	}
	if strings.Contains(s, "JPY") {
		return ForexJPY
	}
	for _, tok := range cryptoTokens {
		if strings.Contains(s, tok) {
			return Crypto
		}
	}
	return ForexMajor
}
