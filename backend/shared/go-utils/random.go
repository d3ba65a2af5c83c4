// go-utils/random.go

package utils

import (
	"crypto/rand"
	"math/big"
)

// RandomNumericString generates a random string containing only digits.
func RandomNumericString(length int) string {
	const digits = "0123456789"
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			panic(err)
		}
		b[i] = digits[num.Int64()]
	}
	return string(b)
}

// NewInvoiceNumber returns an owner-facing invoice number such as
// "INV-20250314-48213907".
func NewInvoiceNumber(dateStamp string) string {
	return InvoiceNumberPrefix + dateStamp + "-" + RandomNumericString(8)
}
