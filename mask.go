package foundry

import (
	"math/bits"
	"strconv"
	"strings"
)

// BitMask is a variable-width bitset over component bit indices. It grows
// to cover the highest bit ever set on it and is compared by value (two
// masks with the same bits set, regardless of backing slice length, are
// equal — see Equal). Grounded on kjkrol-gokx's growth-on-set []uint64
// bitmask, with oriumgames-pecs's ContainsAll/ContainsAny naming.
type BitMask struct {
	words []uint64
}

// Set returns a mask with bit set, growing the backing storage if needed.
// BitMask is a value type passed by copy; Set never mutates a mask another
// caller might still be holding a reference to — it builds a new slice
// whenever growth is needed and otherwise copies before writing.
func (m BitMask) Set(bit uint32) BitMask {
	word := int(bit / 64)
	pos := bit % 64
	words := m.words
	if len(words) <= word {
		grown := make([]uint64, word+1)
		copy(grown, words)
		words = grown
	} else {
		grown := make([]uint64, len(words))
		copy(grown, words)
		words = grown
	}
	words[word] |= 1 << pos
	return BitMask{words: words}
}

// Clear returns a mask with bit cleared.
func (m BitMask) Clear(bit uint32) BitMask {
	word := int(bit / 64)
	if word >= len(m.words) {
		return m
	}
	words := make([]uint64, len(m.words))
	copy(words, m.words)
	words[word] &^= 1 << (bit % 64)
	return BitMask{words: words}.trim()
}

// Has reports whether bit is set.
func (m BitMask) Has(bit uint32) bool {
	word := int(bit / 64)
	if word >= len(m.words) {
		return false
	}
	return m.words[word]&(1<<(bit%64)) != 0
}

// ContainsAll reports whether every bit set in other is also set in m
// (m is a superset of other — "a ⊇ b" in spec.md §4.2).
func (m BitMask) ContainsAll(other BitMask) bool {
	if len(other.words) > len(m.words) {
		for i := len(m.words); i < len(other.words); i++ {
			if other.words[i] != 0 {
				return false
			}
		}
	}
	n := len(other.words)
	if n > len(m.words) {
		n = len(m.words)
	}
	for i := 0; i < n; i++ {
		if m.words[i]&other.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// ContainsAny reports whether any bit set in other is also set in m.
func (m BitMask) ContainsAny(other BitMask) bool {
	n := len(m.words)
	if len(other.words) < n {
		n = len(other.words)
	}
	for i := 0; i < n; i++ {
		if m.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

// ContainsNone reports whether no bit set in other is also set in m
// (m and other are disjoint).
func (m BitMask) ContainsNone(other BitMask) bool {
	return !m.ContainsAny(other)
}

// IsZero reports whether no bits are set.
func (m BitMask) IsZero() bool {
	for _, w := range m.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Equal reports value equality, independent of backing-slice length.
func (m BitMask) Equal(other BitMask) bool {
	n := len(m.words)
	if len(other.words) > n {
		n = len(other.words)
	}
	for i := 0; i < n; i++ {
		var a, b uint64
		if i < len(m.words) {
			a = m.words[i]
		}
		if i < len(other.words) {
			b = other.words[i]
		}
		if a != b {
			return false
		}
	}
	return true
}

// Count returns the number of set bits.
func (m BitMask) Count() int {
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Key returns a stable, comma-joined decimal textual key: equal masks (by
// value) always produce the same key regardless of trailing zero words.
func (m BitMask) Key() string {
	trimmed := m.trim()
	if len(trimmed.words) == 0 {
		return ""
	}
	parts := make([]string, len(trimmed.words))
	for i, w := range trimmed.words {
		parts[i] = strconv.FormatUint(w, 10)
	}
	return strings.Join(parts, ",")
}

// trim drops trailing all-zero words so two value-equal masks always share
// one canonical backing length (used by Key and Clear).
func (m BitMask) trim() BitMask {
	n := len(m.words)
	for n > 0 && m.words[n-1] == 0 {
		n--
	}
	if n == len(m.words) {
		return m
	}
	return BitMask{words: m.words[:n:n]}
}

// Union returns a mask with every bit set in either m or other.
func (m BitMask) Union(other BitMask) BitMask {
	n := len(m.words)
	if len(other.words) > n {
		n = len(other.words)
	}
	words := make([]uint64, n)
	for i := 0; i < n; i++ {
		var a, b uint64
		if i < len(m.words) {
			a = m.words[i]
		}
		if i < len(other.words) {
			b = other.words[i]
		}
		words[i] = a | b
	}
	return BitMask{words: words}.trim()
}

// ForEachSet invokes fn once per set bit, in ascending order.
func (m BitMask) ForEachSet(fn func(bit uint32)) {
	for wordIdx, word := range m.words {
		for word != 0 {
			pos := bits.TrailingZeros64(word)
			fn(uint32(wordIdx*64 + pos))
			word &= word - 1
		}
	}
}
