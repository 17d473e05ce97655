package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ObjectKeyPrefix namespaces every upload so storage-side lifecycle rules can
// target the whole namespace at once.
const ObjectKeyPrefix = "uploads"

// NewObjectKey mints a globally unique key of the form
// uploads/<uuid>/<fileName>. The file name is embedded verbatim: a name
// containing path separators produces extra key segments. Callers that care
// should sanitize before minting.
func NewObjectKey(fileName string) string {
	return fmt.Sprintf("%s/%s/%s", ObjectKeyPrefix, uuid.New().String(), fileName)
}

// ObjectKeyUUID extracts the UUID segment of a minted key, or "" if the key
// does not have the minted shape.
func ObjectKeyUUID(key string) string {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) < 3 || parts[0] != ObjectKeyPrefix {
		return ""
	}
	if _, err := uuid.Parse(parts[1]); err != nil {
		return ""
	}
	return parts[1]
}
