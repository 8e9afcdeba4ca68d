package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "'plain'"},
		{"it's", `'it'\''s'`},
		{"", "''"},
		{"$HOME `x`", "'$HOME `x`'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Quote(tt.in))
	}
}

func TestQuote_RoundTripsThroughShellWords(t *testing.T) {
	for _, s := range []string{"it's a test", "''", "a'b'c", "/data/adb/box/it's here.json"} {
		words, err := shellWords(Quote(s))
		require.NoError(t, err)
		require.Len(t, words, 1)
		assert.Equal(t, s, words[0])
	}
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath("/data/adb/box/sing-box/config.json"))
	assert.Error(t, ValidatePath(""))
	assert.Error(t, ValidatePath("relative/config.json"))
	assert.Error(t, ValidatePath("/data/adb/box/sing-box/a\nb"))
}

func TestInlineCommand_Shape(t *testing.T) {
	cmd := InlineCommand([]byte("it's"), "/d/config.json", 0o644)
	assert.Equal(t,
		"printf '%s' 'aXQncw==' | base64 -d > '/d/config.json.boxfetch.tmp' && "+
			"chmod 644 '/d/config.json.boxfetch.tmp' && "+
			"mv -f '/d/config.json.boxfetch.tmp' '/d/config.json'",
		cmd)
}

func TestStagedCommand_Shape(t *testing.T) {
	cmd := StagedCommand("/tmp/boxfetch-1.staged", "/d/config.json", 0o600)
	assert.Equal(t,
		"cat '/tmp/boxfetch-1.staged' > '/d/config.json.boxfetch.tmp' && "+
			"chmod 600 '/d/config.json.boxfetch.tmp' && "+
			"mv -f '/d/config.json.boxfetch.tmp' '/d/config.json'",
		cmd)
}
