package emoji

import "testing"

func TestGetEmoji(t *testing.T) {
	t.Cleanup(func() { SetEmojiDisabled(false) })

	tests := []struct {
		key      string
		disabled bool
		want     string
	}{
		{key: "success", want: "✅"},
		{key: "success", disabled: true, want: "[OK]"},
		{key: "line_chart", disabled: true, want: "[LINE]"},
		{key: "nope", want: "[?]"},
	}

	for _, tt := range tests {
		SetEmojiDisabled(tt.disabled)
		if got := GetEmoji(tt.key); got != tt.want {
			t.Errorf("GetEmoji(%q) disabled=%v = %q, want %q", tt.key, tt.disabled, got, tt.want)
		}
	}
}

func TestPrefix(t *testing.T) {
	SetEmojiDisabled(true)
	t.Cleanup(func() { SetEmojiDisabled(false) })

	if got := Prefix("error", "Server Error: 500"); got != "[ERR] Server Error: 500" {
		t.Errorf("Prefix() = %q", got)
	}
}
