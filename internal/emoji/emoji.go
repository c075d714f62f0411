package emoji

import "sync/atomic"

// emojiMap holds [emoji, fallback] pairs
var emojiMap = map[string][2]string{
	"error":      {"❌", "[ERR]"},
	"warning":    {"⚠️", "[WRN]"},
	"info":       {"ℹ️", "[INF]"},
	"success":    {"✅", "[OK]"},
	"upload":     {"📤", "[UP]"},
	"file":       {"📄", "[FILE]"},
	"processing": {"⏳", "[...]"},
	"dashboard":  {"📊", "[DASH]"},
	"bar_chart":  {"📊", "[BAR]"},
	"line_chart": {"📈", "[LINE]"},
	"watch":      {"👀", "[WATCH]"},
	"config":     {"⚙️", "[CFG]"},
	"door":       {"🚪", "[EXIT]"},
	"help":       {"❓", "[?]"},
}

var emojiDisabled atomic.Bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled.Store(disabled)
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled.Load()
}

// GetEmoji returns the emoji for key, or its plain fallback when emoji are disabled
func GetEmoji(key string) string {
	mapping, ok := emojiMap[key]
	if !ok {
		return "[?]"
	}
	if emojiDisabled.Load() {
		return mapping[1]
	}
	return mapping[0]
}

// Prefix returns "<emoji> msg", the form used for status and alert lines
func Prefix(key, msg string) string {
	return GetEmoji(key) + " " + msg
}
