package snapshot

import "github.com/laurentkvb/squash-go/internal/match"

// Store persists the serialized in-progress match so it can be restored after
// a restart. There is at most one active match, held under a single key and
// overwritten on every update.
type Store interface {
	Save(m *match.LiveMatch) error
	Load() (*match.LiveMatch, error)
	Clear() error
}
