package pos

import (
	"fmt"
	"strings"
)

// Kind tells sale and transfer contexts apart. Catalog snapshots and carts are both
// built for one kind.
type Kind uint8

const (
	KindSale Kind = iota
	KindTransfer
)

func (k Kind) String() string {
	return []string{"sale", "transfer"}[k]
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "sale":
		*k = KindSale
	case "transfer":
		*k = KindTransfer
	default:
		return fmt.Errorf("unknown cart kind: %s", text)
	}
	return nil
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Validate is used by the "enum" validation tag.
func (k Kind) Validate() error {
	if k > KindTransfer {
		return fmt.Errorf("unknown cart kind: %d", k)
	}
	return nil
}
