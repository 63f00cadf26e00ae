package patch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yaklabco/cstpatch/pkg/textenc"
	"github.com/yaklabco/cstpatch/pkg/translation"
)

var (
	wordRE = regexp.MustCompile(`\S+`)

	// A backslash followed by anything but '@' is an engine command; such
	// words must not be bracketed.
	commandRE = regexp.MustCompile(`\\[^@]`)
)

// TextOptions controls ProcessText.
type TextOptions struct {
	// Encoding decides which characters need escaping. Nil means Shift_JIS.
	Encoding textenc.Encoding

	// WordGuard wraps every word in [brackets] so the engine never breaks
	// a line inside it.
	WordGuard bool
}

// ProcessText turns translated text into script text for a line whose
// current content is original:
//   - words are wrapped in [brackets] when WordGuard is set, except words
//     holding an engine command;
//   - quotes and characters the encoding cannot represent become \$<code>;
//   - CRLF and LF line breaks become the two characters \n;
//   - \@ is appended when original ends with it.
func ProcessText(original, text string, opts TextOptions) string {
	enc := opts.Encoding
	if enc == nil {
		enc = textenc.ShiftJIS()
	}

	if opts.WordGuard {
		text = wordRE.ReplaceAllStringFunc(text, func(word string) string {
			if commandRE.MatchString(word) {
				return word
			}
			return "[" + word + "]"
		})
	}

	text = escapeSpecial(text, enc)
	text = strings.ReplaceAll(text, "\r\n", `\n`)
	text = strings.ReplaceAll(text, "\n", `\n`)

	if strings.HasSuffix(original, translation.PromptSuffix) {
		text += translation.PromptSuffix
	}
	return text
}

func escapeSpecial(text string, enc textenc.Encoding) string {
	var out strings.Builder
	out.Grow(len(text))

	for _, r := range text {
		if r == '\'' || r == '"' || !textenc.Representable(enc, r) {
			out.WriteString(`\$`)
			out.WriteString(strconv.Itoa(int(r)))
			out.WriteByte(';')
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
