package budget

import "math"

// charsPerToken is the fixed approximation used throughout the pipeline:
// roughly four characters of English text per model token. It is a
// documented heuristic, not a tokenizer.
const charsPerToken = 4

// EstimateTokensFromChars converts a character count into an estimated token
// count. The result uses a ceiling so short strings never round to zero.
func EstimateTokensFromChars(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / charsPerToken))
}

// EstimateTokens returns the estimated token count of a string.
func EstimateTokens(s string) int {
	return EstimateTokensFromChars(len(s))
}

// ApproxChars converts a token budget into the character budget the chunker
// packs against.
func ApproxChars(maxTokens int) int {
	if maxTokens <= 0 {
		return 0
	}
	return maxTokens * charsPerToken
}
