package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/cstpatch/pkg/cst"
)

// Table formatting constants.
const (
	tablePadding      = 2
	lineColumnCount   = 4 // ID, TYPE, BLOCK, CONTENT
	minIDWidth        = 4
	minTypeWidth      = 8
	minBlockWidth     = 5
	minContentWidth   = 20
	heavySeparator    = "="
	lightSeparator    = "-"
	defaultTermWidth  = 100
	ellipsis          = "..."
	noBlock           = "-"
	escapedLineBreak  = `\n`
	displayLineBreak  = "⏎"
	blockColumnHeader = "BLOCK"
)

// TableFormatter renders a script's lines and blocks as styled tables.
// Widths are display widths, so full-width text lines up.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

type lineRow struct {
	id      string
	kind    string
	block   string
	content string
	typ     cst.LineType
}

type lineWidths struct {
	id, kind, block, content int
}

// FormatLines renders one row per line with the index of the first block
// that covers it.
func (t *TableFormatter) FormatLines(script *cst.Script) string {
	if script == nil || len(script.Lines) == 0 {
		return ""
	}

	rows := make([]lineRow, 0, len(script.Lines))
	for idx, line := range script.Lines {
		rows = append(rows, lineRow{
			id:      strconv.Itoa(line.ID),
			kind:    line.Type.String(),
			block:   blockOf(script.Blocks, idx),
			content: strings.ReplaceAll(line.Content, escapedLineBreak, displayLineBreak),
			typ:     line.Type,
		})
	}

	widths := t.lineWidths(rows)

	var builder strings.Builder
	header := fmt.Sprintf(" %s  %s  %s  %s",
		pad("ID", widths.id), pad("TYPE", widths.kind), pad(blockColumnHeader, widths.block), "CONTENT")
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.separator(widths.total(), heavySeparator))
	builder.WriteString("\n")

	for _, row := range rows {
		content := runewidth.Truncate(row.content, widths.content, ellipsis)
		line := fmt.Sprintf(" %s  %s  %s  %s",
			pad(row.id, widths.id), pad(row.kind, widths.kind), pad(row.block, widths.block), content)
		builder.WriteString(t.rowStyle(row.typ).Render(line))
		builder.WriteString("\n")
	}

	builder.WriteString(t.separator(widths.total(), heavySeparator))
	builder.WriteString("\n")
	return builder.String()
}

// FormatBlocks renders the block table.
func (t *TableFormatter) FormatBlocks(script *cst.Script) string {
	if script == nil || len(script.Blocks) == 0 {
		return ""
	}

	const numWidth = 8
	var builder strings.Builder
	header := fmt.Sprintf(" %s  %s  %s", pad(blockColumnHeader, numWidth), pad("START", numWidth), "LENGTH")
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.separator(numWidth*3+tablePadding*3, lightSeparator))
	builder.WriteString("\n")

	for idx, block := range script.Blocks {
		builder.WriteString(fmt.Sprintf(" %s  %s  %d\n",
			pad(strconv.Itoa(idx), numWidth), pad(strconv.FormatUint(uint64(block.Start), 10), numWidth), block.Length))
	}
	return builder.String()
}

func (t *TableFormatter) lineWidths(rows []lineRow) lineWidths {
	widths := lineWidths{id: minIDWidth, kind: minTypeWidth, block: minBlockWidth}
	longest := minContentWidth

	for _, row := range rows {
		widths.id = max(widths.id, len(row.id))
		widths.kind = max(widths.kind, len(row.kind))
		widths.block = max(widths.block, len(row.block))
		longest = max(longest, runewidth.StringWidth(row.content))
	}

	fixed := widths.id + widths.kind + widths.block + tablePadding*lineColumnCount
	widths.content = max(minContentWidth, min(longest, t.termWidth-fixed))
	return widths
}

func (w lineWidths) total() int {
	return w.id + w.kind + w.block + w.content + tablePadding*lineColumnCount
}

func (t *TableFormatter) separator(width int, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, width))
}

func (t *TableFormatter) rowStyle(typ cst.LineType) lipgloss.Style {
	switch typ {
	case cst.Message:
		return t.styles.LineMessage
	case cst.Name:
		return t.styles.LineName
	default:
		return t.styles.LineCommand
	}
}

// blockOf returns the index of the first block covering line idx.
func blockOf(blocks []cst.Block, idx int) string {
	for b, block := range blocks {
		if uint64(idx) >= uint64(block.Start) && uint64(idx) < block.End() {
			return strconv.Itoa(b)
		}
	}
	return noBlock
}

// pad right-fills s to width display cells.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
