package vault

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewStorageKey builds a collision-resistant blob key for an upload:
// originals/<year>/<month>/<randomId>_<sanitizedFilename>. The random
// component guarantees two uploads never collide even with identical
// filenames.
func NewStorageKey(now time.Time, filename string) string {
	return fmt.Sprintf("originals/%d/%02d/%s_%s",
		now.Year(), int(now.Month()), uuid.NewString(), sanitizeFilename(filename))
}

// sanitizeFilename strips every character outside [A-Za-z0-9._-] to '_' so
// the key stays path-safe on any blob backend.
func sanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
