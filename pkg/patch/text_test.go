package patch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/cstpatch/pkg/patch"
	"github.com/yaklabco/cstpatch/pkg/textenc"
)

func TestProcessText(t *testing.T) {
	t.Parallel()

	guard := patch.TextOptions{WordGuard: true}
	plain := patch.TextOptions{}

	tests := []struct {
		name     string
		original string
		text     string
		opts     patch.TextOptions
		want     string
	}{
		{"words are guarded", "はい", "Good morning", guard, "[Good] [morning]"},
		{"commands are not guarded", "はい", `\fsHello there`, guard, `\fsHello [there]`},
		{"prompt suffix alone is not a command", "はい", `Yes\@`, guard, `[Yes\@]`},
		{"guard disabled", "はい", "Good morning", plain, "Good morning"},
		{"double quotes escaped", "はい", `"Hi"`, plain, `\$34;Hi\$34;`},
		{"apostrophe escaped", "はい", "It's", plain, `It\$39;s`},
		{"unrepresentable escaped", "はい", "café", plain, `caf\$233;`},
		{"emoji escaped", "はい", "ok😀", plain, `ok\$128512;`},
		{"japanese kept", "はい", "はい、ユウ", plain, "はい、ユウ"},
		{"CRLF becomes marker", "はい", "a\r\nb", plain, `a\nb`},
		{"LF becomes marker", "はい", "a\nb", guard, `[a]\n[b]`},
		{"prompt suffix restored", `はい\@`, "Yes", guard, `[Yes]\@`},
		{"empty text", "はい", "", guard, ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := patch.ProcessText(testCase.original, testCase.text, testCase.opts)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestProcessText_EncodingDecidesEscapes(t *testing.T) {
	t.Parallel()

	opts := patch.TextOptions{Encoding: textenc.UTF8()}
	assert.Equal(t, "café", patch.ProcessText("", "café", opts))
	assert.Equal(t, `\$39;`, patch.ProcessText("", "'", opts))
}
