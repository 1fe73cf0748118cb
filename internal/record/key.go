package record

import (
	"strings"

	"github.com/google/uuid"
)

// Kind names a record type. It is also the key prefix the type is stored
// under.
type Kind string

const (
	KindSession       Kind = "session"
	KindBreakthrough  Kind = "breakthrough"
	KindMisconception Kind = "misconception"
	KindFrustration   Kind = "frustration"
	KindLLMRequest    Kind = "llm"
)

// SignalKinds are the kinds produced by tutoring sessions, in reporting order.
var SignalKinds = []Kind{KindSession, KindBreakthrough, KindMisconception, KindFrustration}

// AllKinds lists every stored kind.
var AllKinds = append(append([]Kind{}, SignalKinds...), KindLLMRequest)

// idPrefixes are prepended to generated ids so a bare id still shows its kind.
var idPrefixes = map[Kind]string{
	KindSession:       "sess_",
	KindBreakthrough:  "bt_",
	KindMisconception: "mc_",
	KindFrustration:   "fr_",
	KindLLMRequest:    "llm_",
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := idPrefixes[k]
	return ok
}

// ParseKind converts a user-supplied name into a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

// Key returns the storage key for a record of kind k with the given id.
func Key(k Kind, id string) string {
	return string(k) + ":" + id
}

// KeyOf returns the storage key for r.
func KeyOf(r Record) string {
	return Key(r.RecordKind(), r.RecordID())
}

// Prefix returns the key prefix shared by all records of kind k.
func Prefix(k Kind) string {
	return string(k) + ":"
}

// ParseKey splits a storage key into its kind and id.
func ParseKey(key string) (Kind, string, bool) {
	kind, id, found := strings.Cut(key, ":")
	if !found || id == "" || !Kind(kind).Valid() {
		return "", "", false
	}
	return Kind(kind), id, true
}

// NewID generates a fresh id for a record of kind k. Exchanges use the "ex_"
// prefix.
func NewID(k Kind) string {
	return idPrefixes[k] + uuid.NewString()
}

// NewExchangeID generates a fresh exchange id.
func NewExchangeID() string {
	return "ex_" + uuid.NewString()
}
