package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		args  []string
		want  Intent
	}{
		{"no flags no args", Flags{}, nil, Intent{Kind: Interactive}},
		{"free text", Flags{}, []string{"fix", "bug"}, Intent{Kind: Search, Arg: "fix bug"}},
		{"single arg", Flags{}, []string{"ENG-142"}, Intent{Kind: Search, Arg: "ENG-142"}},
		{"auto with arg", Flags{Auto: true}, []string{"ENG-1"}, Intent{Kind: Auto, Arg: "ENG-1"}},
		{"auto without arg", Flags{Auto: true}, nil, Intent{Kind: Auto}},
		{"create without title", Flags{Create: true}, nil, Intent{Kind: Create}},
		{"create with title", Flags{Create: true}, []string{"add", "dark", "mode"}, Intent{Kind: Create, Arg: "add dark mode"}},
		{"auto wins over create", Flags{Auto: true, Create: true}, []string{"x"}, Intent{Kind: Auto, Arg: "x"}},
		{"blank args are no args", Flags{}, []string{"  ", ""}, Intent{Kind: Interactive}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.flags, tt.args))
		})
	}
}
