package interfaces

// TokenCounter measures the model token footprint of a prompt.
type TokenCounter interface {
	Count(text string) int
}
