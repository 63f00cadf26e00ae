package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/cstpatch/internal/logging"
	"github.com/yaklabco/cstpatch/internal/ui/pretty"
	"github.com/yaklabco/cstpatch/pkg/config"
	"github.com/yaklabco/cstpatch/pkg/cst"
	"github.com/yaklabco/cstpatch/pkg/reporter"
	"github.com/yaklabco/cstpatch/pkg/textenc"
	"github.com/yaklabco/cstpatch/pkg/translation"
)

type inspectFlags struct {
	format   string
	encoding string
	merge    bool
	blocks   bool
}

// inspectOutput is the JSON form of an inspected script.
type inspectOutput struct {
	Path   string         `json:"path"`
	Script string         `json:"script"`
	Merged int            `json:"merged"`
	Counts map[string]int `json:"counts"`
	Blocks []inspectBlock `json:"blocks"`
	Lines  []inspectLine  `json:"lines"`
}

type inspectBlock struct {
	Start  uint32 `json:"start"`
	Length uint32 `json:"length"`
}

type inspectLine struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

func newInspectCommand(s *session) *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "List the blocks and lines of a scene script",
		Long: `Decode one scene script and list its blocks and lines.

With --merge the continuation lines are merged first, showing the lines
exactly as the translation pass sees them.

Examples:
  cstpatch inspect scene/op01.cst
  cstpatch inspect --merge scene/op01.cst
  cstpatch inspect --format json scene/op01.cst`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, s, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.encoding, "encoding", config.DefaultEncoding, "script text encoding")
	cmd.Flags().BoolVar(&flags.merge, "merge", false, "merge continuation lines before listing")
	cmd.Flags().BoolVar(&flags.blocks, "blocks", true, "list the block table")

	return cmd
}

func runInspect(cmd *cobra.Command, s *session, path string, flags *inspectFlags) error {
	ctx := commandContext(cmd)

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("encoding") {
		cliCfg.Encoding = flags.encoding
	}
	cfg, _, err := s.loadConfig(ctx, cliCfg)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	enc, err := textenc.Lookup(cfg.Encoding)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	script, err := readScript(cst.NewCodec(enc), path)
	if err != nil {
		return err
	}

	merged := 0
	if flags.merge {
		merged = script.MergeContinuations(cfg.ContinuationMarker)
	}
	logging.Default().Debug("inspected script",
		logging.FieldPath, path,
		logging.FieldLines, len(script.Lines),
		logging.FieldMerged, merged,
	)

	if format == reporter.FormatJSON {
		return writeInspectJSON(cmd.OutOrStdout(), path, script, merged)
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(s.color, out))
	table := pretty.NewTableFormatter(styles, terminalWidth(out))

	var builder strings.Builder
	builder.WriteString(styles.FormatFileHeader(path, len(script.Lines)))
	builder.WriteString("\n\n")
	if flags.blocks && len(script.Blocks) > 0 {
		builder.WriteString(table.FormatBlocks(script))
		builder.WriteString("\n")
	}
	builder.WriteString(table.FormatLines(script))
	if flags.merge {
		builder.WriteString(styles.Dim.Render(fmt.Sprintf("%d continuation lines merged", merged)))
		builder.WriteString("\n")
	}

	if _, err := io.WriteString(out, builder.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func readScript(codec *cst.Codec, path string) (*cst.Script, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	script, err := codec.ReadFrom(file, translation.ScriptLabel(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return script, nil
}

func writeInspectJSON(w io.Writer, path string, script *cst.Script, merged int) error {
	output := inspectOutput{
		Path:   path,
		Script: translation.ScriptLabel(path),
		Merged: merged,
		Counts: make(map[string]int),
		Blocks: make([]inspectBlock, 0, len(script.Blocks)),
		Lines:  make([]inspectLine, 0, len(script.Lines)),
	}
	for typ, count := range script.CountByType() {
		output.Counts[typ.String()] = count
	}
	for _, block := range script.Blocks {
		output.Blocks = append(output.Blocks, inspectBlock{Start: block.Start, Length: block.Length})
	}
	for _, line := range script.Lines {
		output.Lines = append(output.Lines, inspectLine{ID: line.ID, Type: line.Type.String(), Content: line.Content})
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil {
		return 0
	}
	return width
}
