package chunker

// EstimateTokens approximates the token count of text as ceil(len/4).
// This is a fixed heuristic, not a real tokenizer — it only needs to be
// deterministic and roughly proportional for budgeting purposes.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
