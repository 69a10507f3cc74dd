package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns an opaque identifier such as "lst_3f2a9c0d41be".
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:12]
}
