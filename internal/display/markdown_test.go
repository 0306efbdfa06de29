package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain paragraph",
			in:   "Your scores suggest moderate symptoms.",
			want: "Your scores suggest moderate symptoms.",
		},
		{
			name: "inline markup dropped",
			in:   "This is **important** and *notable*.",
			want: "This is important and notable.",
		},
		{
			name: "heading and paragraph",
			in:   "## Summary\n\nFirst line\nsecond line.",
			want: "Summary\n\nFirst line second line.",
		},
		{
			name: "bullet list",
			in:   "Intro:\n\n- one\n- two",
			want: "Intro:\n\n- one\n- two",
		},
		{
			name: "ordered list",
			in:   "1. first\n2. second",
			want: "1. first\n2. second",
		},
		{
			name: "nested list",
			in:   "- outer\n  - inner",
			want: "- outer\n  - inner",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderMarkdown(tt.in))
		})
	}
}

func TestRenderMarkdown_CodeBlock(t *testing.T) {
	got := RenderMarkdown("Before\n\n```\nscore = 12\n```\n")
	assert.Contains(t, got, "Before\n\n    score = 12")
}
