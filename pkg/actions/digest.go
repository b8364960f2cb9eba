package actions

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrMalformedDigest is returned when a digest string cannot be parsed.
var ErrMalformedDigest = errors.New("malformed action digest")

// Digest is the structured form of an action's unique digest. The string
// form ("TALK-5", "GIVE-12-3", "SLEEP-") is only used on the wire.
type Digest struct {
	Kind Kind
	IDs  []int
}

// Targeted builds the digest for an action aimed at a single entity.
func Targeted(kind Kind, id int) Digest {
	return Digest{Kind: kind, IDs: []int{id}}
}

// Untargeted builds the digest for an action with no target entity.
func Untargeted(kind Kind) Digest {
	return Digest{Kind: kind}
}

// Gift builds the digest for giving giftID to villagerID.
func Gift(giftID, villagerID int) Digest {
	return Digest{Kind: KindGive, IDs: []int{giftID, villagerID}}
}

// ParseDigest parses the wire form of a digest.
func ParseDigest(s string) (Digest, error) {
	kind, rest, found := strings.Cut(s, "-")
	if kind == "" || !found {
		return Digest{}, fmt.Errorf("%w: %q", ErrMalformedDigest, s)
	}

	d := Digest{Kind: Kind(kind)}
	if rest == "" {
		return d, nil
	}

	for _, part := range strings.Split(rest, "-") {
		id, err := strconv.Atoi(part)
		if err != nil {
			return Digest{}, fmt.Errorf("%w: %q has non-numeric id %q", ErrMalformedDigest, s, part)
		}
		d.IDs = append(d.IDs, id)
	}
	return d, nil
}

// String returns the wire form.
func (d Digest) String() string {
	var b strings.Builder
	b.WriteString(string(d.Kind))
	b.WriteByte('-')
	for i, id := range d.IDs {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}

// Equal compares two digests structurally.
func (d Digest) Equal(other Digest) bool {
	return d.Kind == other.Kind && slices.Equal(d.IDs, other.IDs)
}
