// Package bnrand draws shaped arbitrary-precision integers from an arbitrary byte stream.
//
// Int produces an integer of a requested bit length with optional top-bit and low-bit forcing, matching the contract
// of a standard big-number RNG. IntRange builds on Int to sample uniformly from [0, max) by rejection, with a folding
// fast path for ranges just above a power of two. Both read their randomness from an io.Reader, so the same code
// serves a deterministic stream and a system RNG.
package bnrand

import (
	"errors"
	"fmt"
	"io"
	"math/big"
)

// TopMode selects how the highest bits of a drawn integer are forced.
type TopMode int

const (
	// TopAny leaves the high bits unconstrained; the result may have fewer than the requested bits.
	TopAny TopMode = iota

	// TopOne forces the highest requested bit to one, so the result has exactly the requested bit length.
	TopOne

	// TopTwo forces the two highest requested bits to one. A candidate drawn this way, when tripled, gains exactly
	// one bit. Invalid for one-bit draws.
	TopTwo
)

// maxAttempts bounds the rejection-sampling loops in IntRange. Each attempt succeeds with probability >= 1/2 (>= 3/4
// on the folding path), so exhaustion indicates a broken byte source rather than bad luck.
const maxAttempts = 100

var (
	// ErrInvalidBitLength is returned by Int for negative bit lengths, for bits == 0 combined with any shaping, and
	// for the impossible bits == 1 with TopTwo.
	ErrInvalidBitLength = errors.New("bnrand: invalid bit length")

	// ErrNonPositiveRange is returned by IntRange when max is zero or negative.
	ErrNonPositiveRange = errors.New("bnrand: range must be positive")

	// ErrRetriesExhausted is returned by IntRange when the retry bound is exceeded.
	ErrRetriesExhausted = errors.New("bnrand: rejection sampling retry bound exhausted")

	errFoldInvariant = errors.New("bnrand: candidate below 3*range survived two subtractions")
)

// Int reads ceil(bits/8) bytes from r and interprets them as a big-endian unsigned integer of exactly bits bits,
// shaped by top and odd. bits == 0 returns zero and is only valid with TopAny and odd == false.
func Int(r io.Reader, bits int, top TopMode, odd bool) (*big.Int, error) {
	if bits == 0 {
		if top != TopAny || odd {
			return nil, ErrInvalidBitLength
		}
		return new(big.Int), nil
	}
	if bits < 0 || (bits == 1 && top == TopTwo) {
		return nil, ErrInvalidBitLength
	}

	nbytes := (bits + 7) / 8

	// Position of the top requested bit within buf[0], and the mask clearing everything above it. The mask is zero
	// when bits is a multiple of 8.
	bit := (bits - 1) % 8
	mask := byte(0xff << (bit + 1))

	buf := make([]byte, nbytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("bnrand: reading byte stream: %w", err)
	}

	switch top {
	case TopOne:
		buf[0] |= 1 << bit
	case TopTwo:
		if bit == 0 {
			// The second-highest bit lives in the next byte down.
			buf[0] = 1
			buf[1] |= 0x80
		} else {
			buf[0] |= 3 << (bit - 1)
		}
	}
	buf[0] &^= mask
	if odd {
		buf[nbytes-1] |= 1
	}

	v := new(big.Int).SetBytes(buf)
	clear(buf)
	return v, nil
}

// IntRange returns a uniformly distributed integer in [0, max), reading randomness from r.
//
// When the top three bits of max are 100, a candidate one bit longer than max is drawn and folded into range by up to
// two subtractions: 3*max occupies exactly that bit length, so each draw lands below 3*max with probability >= 3/4
// and folding preserves uniformity. Otherwise candidates of max's bit length are drawn and rejected until one falls
// below max. Both loops are bounded at 100 attempts.
func IntRange(r io.Reader, max *big.Int) (*big.Int, error) {
	if max.Sign() <= 0 {
		return nil, ErrNonPositiveRange
	}

	n := max.BitLen()
	if n == 1 {
		// [0, 1) holds a single value.
		return new(big.Int), nil
	}

	if bitAt(max, n-2) == 0 && bitAt(max, n-3) == 0 {
		// max = 100..._2, so 3*max = 11..._2 is exactly one bit longer than max.
		limit := new(big.Int).Lsh(max, 1)
		limit.Add(limit, max)

		for range maxAttempts {
			v, err := Int(r, n+1, TopAny, false)
			if err != nil {
				return nil, err
			}

			// Candidates at or above 3*max fall outside the foldable region; redraw.
			if v.Cmp(limit) >= 0 {
				continue
			}

			// v MOD max is v, v - max, or v - 2*max.
			if v.Cmp(max) >= 0 {
				v.Sub(v, max)
				if v.Cmp(max) >= 0 {
					v.Sub(v, max)
				}
			}
			if v.Cmp(max) >= 0 {
				return nil, errFoldInvariant
			}
			return v, nil
		}
		return nil, ErrRetriesExhausted
	}

	// max = 11..._2 or 101..._2: plain rejection at max's bit length succeeds with probability > 1/2 per draw.
	for range maxAttempts {
		v, err := Int(r, n, TopAny, false)
		if err != nil {
			return nil, err
		}
		if v.Cmp(max) < 0 {
			return v, nil
		}
	}
	return nil, ErrRetriesExhausted
}

// bitAt reads bit i of x, treating negative positions as zero.
func bitAt(x *big.Int, i int) uint {
	if i < 0 {
		return 0
	}
	return x.Bit(i)
}
