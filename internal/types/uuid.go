package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// Prefixes of generated identifiers
const (
	UUID_PREFIX_REQUEST = "req"
	UUID_PREFIX_QUOTE   = "quote"

	SHORT_ID_PREFIX_QUOTE = "QT-"
)

// shortIDLength caps quote numbers so they fit a printed invoice line
const shortIDLength = 12

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable identifier with a prefix
// ex quote_01HNB8ZK3Q4X6V7Y8Z9A0B1C2D
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidOnce      sync.Once
	sidGenerator *shortid.Shortid
)

func shortIDGenerator() *shortid.Shortid {
	sidOnce.Do(func() {
		sid, err := shortid.New(1, shortid.DefaultABC, 2342)
		if err != nil {
			panic("failed to initialize shortid generator: " + err.Error())
		}
		sidGenerator = sid
	})
	return sidGenerator
}

// GenerateShortIDWithPrefix returns an upper case human facing number ex
// QT-XYZ12A8Q4. The result is empty when prefix leaves no room for an id.
func GenerateShortIDWithPrefix(prefix string) string {
	room := shortIDLength - len(prefix)
	if room <= 0 {
		return ""
	}

	id, err := shortIDGenerator().Generate()
	if err != nil {
		return ""
	}
	id = strings.NewReplacer("-", "", "_", "").Replace(id)
	if len(id) > room {
		id = id[:room]
	}

	return strings.ToUpper(prefix + id)
}
