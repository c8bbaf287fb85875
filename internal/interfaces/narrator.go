package interfaces

import "context"

// Narrator produces the narrator reply for an assembled turn prompt.
type Narrator interface {
	// Narrate sends a single completion request and returns the trimmed
	// narration text plus the raw provider response body. The call is
	// not retried; failures surface as models.ErrNarrationFailed.
	Narrate(ctx context.Context, persona, prompt string) (narration, raw string, err error)
}
