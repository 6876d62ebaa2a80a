package postprocess

import "strings"

// CleanRepetitions collapses immediate repetitions that the recognition model
// sometimes stutters into the transcript: adjacent identical phrases of 2-4
// words ("went to the went to the store") and adjacent identical single words
// ("the the store"). Matching is case-insensitive on whole tokens, so "The the"
// collapses but "the. the" does not (punctuation is part of the token).
// Only strictly adjacent windows collapse; intentional repetition elsewhere in
// the answer is left alone. Idempotent.
func CleanRepetitions(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) < 4 {
		return text
	}

	for n := 2; n <= 4; n++ {
		tokens = collapsePhrases(tokens, n)
	}
	tokens = collapseWords(tokens)

	return strings.Join(tokens, " ")
}

// collapsePhrases removes the second of two adjacent identical n-token windows.
// After a removal the same index is re-checked so triple repeats collapse too.
func collapsePhrases(tokens []string, n int) []string {
	i := 0
	for i+2*n <= len(tokens) {
		if windowsEqual(tokens[i:i+n], tokens[i+n:i+2*n]) {
			tokens = append(tokens[:i+n], tokens[i+2*n:]...)
			continue
		}
		i++
	}
	return tokens
}

func windowsEqual(a, b []string) bool {
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

// collapseWords drops tokens that repeat the previous kept token, preserving
// the casing of the first occurrence.
func collapseWords(tokens []string) []string {
	out := tokens[:1]
	for _, tok := range tokens[1:] {
		if strings.EqualFold(tok, out[len(out)-1]) {
			continue
		}
		out = append(out, tok)
	}
	return out
}
