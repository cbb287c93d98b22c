package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	labelStyle   = color.New(color.Faint)
	addressStyle = color.New(color.FgCyan, color.Bold)
	successStyle = color.New(color.FgGreen)
	warnStyle    = color.New(color.FgYellow)
	errorStyle   = color.New(color.FgRed)
	headerStyle  = color.New(color.Bold, color.FgHiWhite)
)

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successStyle.Sprintf("✅ %s", message)
}

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnStyle.Sprintf("⚠️  %s", message)
}

// factoryTitle renders a factory kind for display, e.g. "Createx"
func factoryTitle(name string) string {
	return cases.Title(language.English).String(name)
}

// renderFields writes label/value pairs as a borderless two column table
func renderFields(out io.Writer, rows [][2]string) {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateRows = false
	t.Style().Box = table.BoxStyle{PaddingLeft: "  ", PaddingRight: " "}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignLeft}})

	for _, row := range rows {
		t.AppendRow(table.Row{labelStyle.Sprint(row[0] + ":"), row[1]})
	}
	fmt.Fprintln(out, t.Render())
}

func networkLabel(name string, chainID uint64) string {
	if name == "" {
		return fmt.Sprintf("chain %d", chainID)
	}
	return fmt.Sprintf("%s (chain %d)", name, chainID)
}

// renderEvents prints decoded receipt logs, one per line
func renderEvents(out io.Writer, events []domain.DecodedEvent) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintln(out, headerStyle.Sprint("Events:"))
	for _, event := range events {
		if event.Name == "" {
			fmt.Fprintf(out, "  %s %s\n", labelStyle.Sprint(event.Address.Hex()), event.Topic.Hex())
			continue
		}
		params := make([]string, len(event.Params))
		for i, param := range event.Params {
			params[i] = fmt.Sprintf("%s: %s", param.Name, param.Value)
		}
		fmt.Fprintf(out, "  %s %s(%s)\n", labelStyle.Sprint(event.Address.Hex()), event.Name, strings.Join(params, ", "))
	}
}
