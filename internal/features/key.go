package features

import (
	"sort"
	"strconv"
	"strings"
)

// Kind tags a feature key as fixed or as one of the parametric families
type Kind int

const (
	KindFixed     Kind = iota // Name is the whole key
	KindLastWord              // Payload is the last cleaned token
	KindNearQuote             // Payload is a token found just outside a quote
	KindWord                  // Payload is any cleaned token
	KindFirstWord             // Payload is the first cleaned token
)

// Key identifies a feature. Parametric keys carry data in their payload, so
// "last word = x" and "x near quote" can never collide even when rendered
// names would.
type Key struct {
	kind    Kind
	payload string
}

// Fixed returns a key with a schema-defined name
func Fixed(name string) Key {
	return Key{kind: KindFixed, payload: name}
}

// Parametric returns a key of the given family keyed by payload
func Parametric(kind Kind, payload string) Key {
	return Key{kind: kind, payload: payload}
}

// Kind returns the key family
func (k Key) Kind() Kind { return k.kind }

// Payload returns the fixed name or the parametric payload
func (k Key) Payload() string { return k.payload }

// String renders the key in its conventional feature-name form
func (k Key) String() string {
	switch k.kind {
	case KindLastWord:
		return "last_word_" + k.payload
	case KindNearQuote:
		return k.payload + "_near_quote"
	case KindWord:
		return "word_" + k.payload
	case KindFirstWord:
		return "first_word_" + k.payload
	default:
		return k.payload
	}
}

// Fixed feature keys
var (
	KeyContainsQuotes        = Fixed("contains_quotes")
	KeyFirstQuoteIndex       = Fixed("first_quote_index")
	KeySaidNearSource        = Fixed("said_near_source")
	KeyNumWordsBetweenQuotes = Fixed("num_words_between_quotes")
	KeyContainsAttribution   = Fixed("contains_attribution")
	KeyContainsPronoun       = Fixed("contains_pronoun")
	KeyPctWordsBetweenQuotes = Fixed("pct_words_between_quotes")
)

type valueKind uint8

const (
	valueBool valueKind = iota
	valueNumber
)

// Value is a boolean or numeric feature value. Numbers are compared exactly,
// which is why continuous signals are bucketed before they get here.
type Value struct {
	kind valueKind
	b    bool
	n    float64
}

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: valueBool, b: b} }

// Number returns a numeric value
func Number(n float64) Value { return Value{kind: valueNumber, n: n} }

// IsBool reports whether the value is boolean
func (v Value) IsBool() bool { return v.kind == valueBool }

// AsBool returns the boolean value; numbers are true when non-zero
func (v Value) AsBool() bool {
	if v.kind == valueNumber {
		return v.n != 0
	}
	return v.b
}

// AsNumber returns the numeric value; booleans are 0 or 1
func (v Value) AsNumber() float64 {
	if v.kind == valueBool {
		if v.b {
			return 1
		}
		return 0
	}
	return v.n
}

func (v Value) String() string {
	if v.kind == valueBool {
		if v.b {
			return "True"
		}
		return "False"
	}
	return strconv.FormatFloat(v.n, 'f', -1, 64)
}

// Vector maps feature keys to values for one paragraph
type Vector map[Key]Value

// Keys returns the vector's keys in a stable order
func (v Vector) Keys() []Key {
	keys := make([]Key, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].kind != keys[j].kind {
			return keys[i].kind < keys[j].kind
		}
		return keys[i].payload < keys[j].payload
	})
	return keys
}

func (v Vector) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, k := range v.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k.String())
		b.WriteString(": ")
		b.WriteString(v[k].String())
	}
	b.WriteString("}")
	return b.String()
}
