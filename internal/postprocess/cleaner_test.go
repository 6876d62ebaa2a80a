package postprocess

import "testing"

func TestCleanRepetitions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "stuttered single words",
			in:   "I I went to the the store and and bought milk",
			want: "I went to the store and bought milk",
		},
		{
			name: "already clean",
			in:   "I went to the store and bought milk",
			want: "I went to the store and bought milk",
		},
		{
			name: "two word phrase repeat",
			in:   "so I was I was thinking about the problem",
			want: "so I was thinking about the problem",
		},
		{
			name: "three word phrase repeat",
			in:   "and then we went to the went to the office together",
			want: "and then we went to the office together",
		},
		{
			name: "four word phrase repeat",
			in:   "I think that we I think that we should go",
			want: "I think that we should go",
		},
		{
			name: "triple word repeat",
			in:   "it was was was fine in the end",
			want: "it was fine in the end",
		},
		{
			name: "case insensitive keeps first casing",
			in:   "The the answer is here somewhere",
			want: "The answer is here somewhere",
		},
		{
			name: "punctuation difference is not a repeat",
			in:   "that was very good, very good results came later",
			want: "that was very good, very good results came later",
		},
		{
			name: "non adjacent repetition preserved",
			in:   "I tried hard and later I tried again",
			want: "I tried hard and later I tried again",
		},
		{
			name: "short text unchanged",
			in:   "yes yes yes",
			want: "yes yes yes",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanRepetitions(tt.in)
			if got != tt.want {
				t.Errorf("CleanRepetitions(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanRepetitionsIdempotent(t *testing.T) {
	inputs := []string{
		"I I went to the the store and and bought milk",
		"so I was I was thinking about the problem",
		"I think that we I think that we should go",
		"a perfectly normal sentence without any repeats at all",
	}
	for _, in := range inputs {
		once := CleanRepetitions(in)
		twice := CleanRepetitions(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
