package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello world", "hello world"},
		{"script block", "<script>alert(1)</script>hi", "hi"},
		{"script with attrs", `<script type="text/javascript">x()</script>ok`, "ok"},
		{"html tags", "hi <b>there</b>", "hi there"},
		{"leading trailing space", "  padded  ", "padded"},
		{"only markup", "<i></i>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.in))
		})
	}
}

func TestStripAll(t *testing.T) {
	got := StripAll([]string{"nlp", "<b>vision</b>", "<i></i>", ""})
	assert.Equal(t, []string{"nlp", "vision"}, got)
}
