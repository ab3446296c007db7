package ingest

import "testing"

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `{"tasks": []}`, `{"tasks": []}`},
		{"json fence", "```json\n{\"tasks\": []}\n```", `{"tasks": []}`},
		{"bare fence", "```\n{}\n```", `{}`},
		{"surrounding whitespace", "  {}  ", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
