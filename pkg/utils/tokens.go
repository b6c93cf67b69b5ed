package utils

import (
	"github.com/pkoukk/tiktoken-go"
)

func NumTokens(text string) (int, error) {
	tkm, err := tiktoken.EncodingForModel("gpt-4-0613")
	if err != nil {
		return 0, err
	}
	return len(tkm.Encode(text, nil, nil)), nil
}

// TruncateTokens cuts text to at most limit tokens. When the tokenizer is
// unavailable it falls back to a rune cap of roughly four runes per token.
func TruncateTokens(text string, limit int) string {
	if limit <= 0 || text == "" {
		return text
	}
	tkm, err := tiktoken.EncodingForModel("gpt-4-0613")
	if err != nil {
		return TruncateRunes(text, limit*4)
	}
	tokens := tkm.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return tkm.Decode(tokens[:limit])
}
