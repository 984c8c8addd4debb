package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/evie/internal/engine/buffer"
	"github.com/dshills/evie/internal/input/mode"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"mode insert", SetMode{Mode: mode.Insert}},
		{"mode Normal", SetMode{Mode: mode.Normal}},
		{`insert 4 "a b"`, Edit(buffer.Insert{Index: 4, Text: "a b"})},
		{"delete 1 3", Edit(buffer.Delete{Range: buffer.NewRange(1, 3)})},
		{`replace 0 2 "é"`, Edit(buffer.Replace{Range: buffer.NewRange(0, 2), Text: "é"})},
		{`append "\n"`, Append("\n")},
		{`overwrite "x"`, Edit(buffer.Overwrite{Text: "x"})},
		{"move line-end", Move(buffer.LineEnd)},
		{"newline", Edit(buffer.Newline{})},
		{"delete-backward", Edit(buffer.DeleteBackward{})},
		{"delete-forward", Edit(buffer.DeleteForward{})},
		{"  save  ", Edit(buffer.Save{})},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got == tt.want, "actions are comparable")
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("teleport")
	assert.ErrorIs(t, err, ErrUnknownAction)

	for _, in := range []string{
		"mode sideways",
		"insert x",
		"insert 1",
		`append hello`,
		`append "a" "b"`,
		"delete 1",
		"move north",
		"save now",
	} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestStringRoundTrip(t *testing.T) {
	actions := []Action{
		Switch(mode.Command),
		Edit(buffer.Insert{Index: 7, Text: `say "hi"`}),
		Edit(buffer.Delete{Range: buffer.NewRange(0, 9)}),
		Edit(buffer.Replace{Range: buffer.NewRange(2, 2), Text: "\t"}),
		Append("日本"),
		Edit(buffer.Overwrite{Text: "z"}),
		Move(buffer.Up),
		Edit(buffer.Newline{}),
		Edit(buffer.DeleteBackward{}),
		Edit(buffer.DeleteForward{}),
		Edit(buffer.Save{}),
	}

	for _, a := range actions {
		got, err := Parse(a.String())
		require.NoError(t, err, a.String())
		assert.Equal(t, a, got)
	}
}

func TestIsCore(t *testing.T) {
	assert.True(t, IsCore(Switch(mode.Visual)))
	assert.False(t, IsCore(Append("x")))
}
