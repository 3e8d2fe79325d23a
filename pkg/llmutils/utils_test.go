package llmutils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/effective-security/dinefind/pkg/llmutils"
)

func Test_CleanJSON(t *testing.T) {
	llmOutput := "\n```json\n\n{\"placeId\": \"p1\", \"partySize\": 2}\n\n```\n\n"
	clean := llmutils.CleanJSON([]byte(llmOutput))
	assert.Equal(t, "{\"placeId\": \"p1\", \"partySize\": 2}", string(clean))

	llmOutput = "Here you go:\n```json\n\n[{\"placeId\": \"p1\"}]\n```\n\n"
	clean = llmutils.CleanJSON([]byte(llmOutput))
	assert.Equal(t, "[{\"placeId\": \"p1\"}]", string(clean))

	// already-clean JSON passes through unchanged
	raw := "{\"mood\": \"romantic\"}"
	assert.Equal(t, raw, string(llmutils.CleanJSON([]byte(raw))))

	// no JSON at all: returned as is
	assert.Equal(t, "no json here", string(llmutils.CleanJSON([]byte("no json here"))))
}

func Test_ToJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, llmutils.ToJSON(map[string]int{"a": 1}))
	assert.Equal(t, "{\n\t\"a\": 1\n}", llmutils.ToJSONIndent(map[string]int{"a": 1}))
}

func Test_BackticksJSON(t *testing.T) {
	assert.Equal(t, "\n```json\n{}\n```\n", llmutils.BackticksJSON(" {} "))
}
