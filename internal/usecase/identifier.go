package usecase

import (
	"encoding/binary"
	"fmt"
	"strings"

	"transit-booking/pkg/clock"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
)

const (
	ticketPrefix      = "TKT"
	transactionPrefix = "TXN"
	ticketIDLength    = 16
	transactionLength = 20
	fragmentDigits    = 6

	suffixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// SuffixFunc returns n random characters.
type SuffixFunc func(n int) string

// IdentifierGenerator issues ticket and transaction ids at confirmation.
type IdentifierGenerator struct {
	clock  clock.Clock
	suffix SuffixFunc
}

func NewIdentifierGenerator(clk clock.Clock) *IdentifierGenerator {
	return &IdentifierGenerator{clock: clk, suffix: randomSuffix}
}

// WithSuffix replaces the random source, mainly so tests can force collisions.
func (g *IdentifierGenerator) WithSuffix(fn SuffixFunc) *IdentifierGenerator {
	g.suffix = fn
	return g
}

// TicketID is TKT + a 6-digit fragment of the reservation id + a random
// uppercase suffix, 16 characters in total.
func (g *IdentifierGenerator) TicketID(reservationID uuid.UUID) string {
	head := ticketPrefix + fragment(reservationID)
	return head + g.suffix(ticketIDLength-len(head))
}

// TransactionID is TXN + fragment + HHMMSS of the confirmation time + a
// random suffix, 20 characters in total.
func (g *IdentifierGenerator) TransactionID(reservationID uuid.UUID) string {
	head := transactionPrefix + fragment(reservationID) + g.clock.Now().Format("150405")
	return head + g.suffix(transactionLength-len(head))
}

func fragment(id uuid.UUID) string {
	n := binary.BigEndian.Uint32(id[:4]) % 1_000_000
	return fmt.Sprintf("%0*d", fragmentDigits, n)
}

// randomSuffix draws from shortuuid's default base57 alphabet, which must stay
// 57 bytes long, and keeps the uppercased characters inside suffixAlphabet.
func randomSuffix(n int) string {
	var b strings.Builder
	for b.Len() < n {
		// the least significant digit comes first; the tail may be padding
		for _, r := range strings.ToUpper(shortuuid.New()[:16]) {
			if b.Len() == n {
				break
			}
			if strings.ContainsRune(suffixAlphabet, r) {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
