package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID generates a prefixed identifier, e.g. "txn_5f3a...".
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
