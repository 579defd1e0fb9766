package beleniosrf

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// MaxMessageBits bounds k, the number of bits of the messages. Decryption
// scans the 2^k possible messages.
const MaxMessageBits = 16

// ErrInvalidMessage is returned for messages whose length does not match
// the election or whose entries are not bits.
var ErrInvalidMessage = errors.New("invalid message")

// Message is the bit vector encoding the choice of a voter. Every entry is
// 0 or 1.
type Message []uint8

// IntToMessage returns the k bits of a, most significant first.
func IntToMessage(a uint64, k int) Message {
	m := make(Message, k)
	for i := range m {
		m[i] = uint8((a >> (k - i - 1)) & 1)
	}
	return m
}

// MessageSpace iterates over the 2^k messages of k bits in increasing
// order of their integer value.
func MessageSpace(k int) iter.Seq[Message] {
	return func(yield func(Message) bool) {
		for a := uint64(0); a < 1<<k; a++ {
			if !yield(IntToMessage(a, k)) {
				return
			}
		}
	}
}

// Int returns the integer whose k bits are m, most significant first.
func (m Message) Int() uint64 {
	var a uint64
	for _, bit := range m {
		a = a<<1 | uint64(bit&1)
	}
	return a
}

// Validate checks m has k entries, all of them bits.
func (m Message) Validate(k int) error {
	if len(m) != k {
		return fmt.Errorf("%w: got %d bits, expected %d", ErrInvalidMessage, len(m), k)
	}
	for i, bit := range m {
		if bit > 1 {
			return fmt.Errorf("%w: entry %d is %d", ErrInvalidMessage, i, bit)
		}
	}
	return nil
}

// Equal checks both messages have the same bits.
func (m Message) Equal(x Message) bool {
	if len(m) != len(x) {
		return false
	}
	for i := range m {
		if m[i] != x[i] {
			return false
		}
	}
	return true
}

func (m Message) String() string {
	var sb strings.Builder
	for _, bit := range m {
		sb.WriteByte('0' + bit)
	}
	return sb.String()
}
