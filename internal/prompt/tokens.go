package prompt

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter measures prompt sizes with a tiktoken encoding.
type Counter struct {
	encoding *tiktoken.Tiktoken
}

// NewCounter loads the cl100k_base encoding used by the chat models we
// target.
func NewCounter() (*Counter, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding: %w", err)
	}
	return &Counter{encoding: encoding}, nil
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}
