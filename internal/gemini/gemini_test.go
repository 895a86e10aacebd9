package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "# Digest\nbody", "# Digest\nbody"},
		{"markdown fence", "```markdown\n# Digest\nbody\n```", "# Digest\nbody"},
		{"bare fence", "```\n# Digest\n```", "# Digest"},
		{"surrounding space", "  \n```md\n## Hi\n```  \n", "## Hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.input))
		})
	}
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("# Part one\n"), genai.Text("Part two")}},
		}},
	}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "# Part one\nPart two", text)
}

func TestResponseText_Empty(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"blank text", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("  ")}},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := responseText(tt.resp)
			assert.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "")
	assert.ErrorContains(t, err, "API key")
}
