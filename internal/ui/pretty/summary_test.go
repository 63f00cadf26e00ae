package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/cstpatch/internal/ui/pretty"
	"github.com/yaklabco/cstpatch/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name: "nothing found",
			want: "No scripts found\n",
		},
		{
			name:  "single script",
			stats: runner.Stats{ScriptsDiscovered: 1, ScriptsPatched: 1, MessagesTranslated: 12, NamesTranslated: 3},
			want:  "1 script patched (12 lines, 3 names)\n",
		},
		{
			name: "mixed outcomes",
			stats: runner.Stats{
				ScriptsDiscovered: 6, ScriptsPatched: 3, ScriptsCopied: 1, ScriptsSkipped: 1, ScriptsErrored: 1,
				MessagesTranslated: 240, NamesTranslated: 12, Warnings: 2,
			},
			want: "3 scripts patched, 1 copied, 1 skipped, 1 failed (240 lines, 12 names), 2 warnings\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, styles.FormatSummaryOneLine(testCase.stats))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	t.Run("complete", func(t *testing.T) {
		t.Parallel()

		out := styles.FormatSummary(runner.Stats{
			ScriptsDiscovered: 4, ScriptsPatched: 3, ScriptsCopied: 1, ScriptsWritten: 4,
			MessagesTranslated: 120, NamesTranslated: 9, LinesMerged: 5,
		})
		assert.Contains(t, out, "Summary")
		assert.Contains(t, out, "Scripts found:      4")
		assert.Contains(t, out, "Copied:             1")
		assert.Contains(t, out, "Lines merged:       5")
		assert.NotContains(t, out, "Failed:")
		assert.NotContains(t, out, "Warnings:")
		assert.Contains(t, out, "Patch complete")
	})

	t.Run("failures", func(t *testing.T) {
		t.Parallel()

		out := styles.FormatSummary(runner.Stats{ScriptsDiscovered: 2, ScriptsPatched: 1, ScriptsErrored: 1, ScriptsWritten: 1, Warnings: 3, EntriesUnused: 2})
		assert.Contains(t, out, "Failed:             1")
		assert.Contains(t, out, "Warnings:           3")
		assert.Contains(t, out, "Unused entries:     2")
		assert.Contains(t, out, "Patch failed")
	})

	t.Run("dry run", func(t *testing.T) {
		t.Parallel()

		out := styles.FormatSummary(runner.Stats{ScriptsDiscovered: 1, ScriptsPatched: 1})
		assert.Contains(t, out, "Dry run, nothing written")
	})
}
