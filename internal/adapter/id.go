package adapter

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TempID synthesizes an unstable resource id for backend records that arrive
// without one. Serving a record under a throwaway id beats dropping it, but
// the id must never be sent back to the backend.
func TempID() string {
	return fmt.Sprintf("temp-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// IsTempID reports whether id was synthesized by TempID.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, "temp-")
}
