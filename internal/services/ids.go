package services

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// token returns n uppercase base-36 characters taken from the low-order
// digits of a random UUID (n <= 20).
func token(n int) string {
	u := uuid.New()
	s := strings.ToUpper(new(big.Int).SetBytes(u[:]).Text(36))
	if len(s) < n {
		s = strings.Repeat("0", n-len(s)) + s
	}
	return s[len(s)-n:]
}

func newOrderID() string   { return "ORD-" + token(6) }
func newProductID() string { return "PRD-" + token(8) }
