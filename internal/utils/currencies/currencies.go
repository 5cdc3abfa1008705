// Package currencies recognizes ISO-4217 alphabetic currency codes.
package currencies

import "strings"

// isoCodes is the set of active ISO-4217 alphabetic codes, plus the
// precious-metal and fund codes the upstream rate provider publishes.
var isoCodes = map[string]struct{}{}

func init() {
	for _, code := range strings.Fields(codeList) {
		isoCodes[code] = struct{}{}
	}
}

const codeList = `
AED AFN ALL AMD ANG AOA ARS AUD AWG AZN
BAM BBD BDT BGN BHD BIF BMD BND BOB BRL BSD BTC BTN BWP BYN BZD
CAD CDF CHF CLF CLP CNH CNY COP CRC CUC CUP CVE CZK
DJF DKK DOP DZD
EGP ERN ETB EUR
FJD FKP
GBP GEL GGP GHS GIP GMD GNF GTQ GYD
HKD HNL HRK HTG HUF
IDR ILS IMP INR IQD IRR ISK
JEP JMD JOD JPY
KES KGS KHR KMF KPW KRW KWD KYD KZT
LAK LBP LKR LRD LSL LYD
MAD MDL MGA MKD MMK MNT MOP MRU MUR MVR MWK MXN MYR MZN
NAD NGN NIO NOK NPR NZD
OMR
PAB PEN PGK PHP PKR PLN PYG
QAR
RON RSD RUB RWF
SAR SBD SCR SDG SEK SGD SHP SLL SOS SRD SSP STD STN SVC SYP SZL
THB TJS TMT TND TOP TRY TTD TWD TZS
UAH UGX USD UYU UZS
VES VND VUV
WST
XAF XAG XAU XCD XDR XOF XPD XPF XPT
YER
ZAR ZMW ZWL
`

// IsValid reports whether code is a recognized 3-letter currency code.
// Comparison is case-insensitive.
func IsValid(code string) bool {
	if len(code) != 3 {
		return false
	}
	_, ok := isoCodes[strings.ToUpper(code)]
	return ok
}

// Normalize upper-cases a currency code for storage and comparison.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
