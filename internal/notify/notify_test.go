package notify

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_Notify(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name   string
		notice Notice
		want   []string
	}{
		{
			name:   "success",
			notice: Notice{Title: "Success", Message: "Image Uploaded Successfully!", Severity: SeveritySuccess},
			want:   []string{"✓ Success", "Image Uploaded Successfully!"},
		},
		{
			name:   "warning",
			notice: Notice{Title: "Warning", Message: "All fields are required!", Severity: SeverityWarning},
			want:   []string{"⚠ Warning", "All fields are required!"},
		},
		{
			name:   "error without message",
			notice: Notice{Title: "Error", Severity: SeverityError},
			want:   []string{"✗ Error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			term := NewTerminal(&out, nil)

			term.Notify(tt.notice)

			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
			assert.NotContains(t, out.String(), "[OK]")
		})
	}
}

func TestTerminal_BlocksUntilConfirm(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	term := NewTerminal(&out, strings.NewReader("\n"))

	term.Notify(Notice{Title: "Authentication Failed", Message: "Invalid credentials", Severity: SeverityError, Confirm: "Try Again"})

	assert.Contains(t, out.String(), "[Try Again]")
}

func TestTerminal_SharesBufferedReader(t *testing.T) {
	color.NoColor = true

	in := bufio.NewReader(strings.NewReader("\nnext answer\n"))
	var out bytes.Buffer
	term := NewTerminal(&out, in)

	term.Notify(Notice{Title: "Success", Severity: SeveritySuccess})

	// подтверждение съело только первую строку, остальное доступно другим читателям
	rest, err := in.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "next answer\n", rest)
	assert.Same(t, in, Buffered(in))
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	_, ok := rec.Last()
	assert.False(t, ok)

	rec.Notify(Notice{Title: "a"})
	rec.Notify(Notice{Title: "b"})

	notices := rec.Notices()
	require.Len(t, notices, 2)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "b", last.Title)

	notices[0].Title = "changed"
	assert.Equal(t, "a", rec.Notices()[0].Title)
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	Multi{a, b}.Notify(Notice{Title: "x"})

	assert.Len(t, a.Notices(), 1)
	assert.Len(t, b.Notices(), 1)
}
