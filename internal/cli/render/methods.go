package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-create2/internal/adapters/abi"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// MethodsRenderer renders function tables and invocation results
type MethodsRenderer struct {
	out io.Writer
}

// NewMethodsRenderer creates a new methods renderer
func NewMethodsRenderer(out io.Writer) *MethodsRenderer {
	return &MethodsRenderer{out: out}
}

// RenderMethods renders the functions of an artifact as a table
func (r *MethodsRenderer) RenderMethods(result *usecase.ListMethodsResult) error {
	if len(result.Methods) == 0 {
		fmt.Fprintf(r.out, "No functions found in %s\n", result.ArtifactName)
		return nil
	}

	fmt.Fprintln(r.out, headerStyle.Sprintf("📜 %s", result.ArtifactName))

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateRows = false
	t.AppendHeader(table.Row{"Selector", "Function", "Mutability", "Returns"})
	for _, method := range result.Methods {
		mutability := method.StateMutability
		if method.ReadOnly() {
			mutability = successStyle.Sprint(mutability)
		} else if mutability == "payable" {
			mutability = warnStyle.Sprint(mutability)
		}
		t.AppendRow(table.Row{
			labelStyle.Sprint(method.Selector),
			method.Signature,
			mutability,
			strings.Join(method.Outputs, ", "),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

// RenderInvocation renders call outputs or a transaction receipt
func (r *MethodsRenderer) RenderInvocation(result *usecase.InvokeContractResult) error {
	if result.Receipt != nil {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s sent to %s", result.Method.Signature, result.Address.Hex())))
		renderFields(r.out, receiptRows(result.Receipt))
		renderEvents(r.out, result.Events)
		return nil
	}

	if len(result.Outputs) == 0 {
		fmt.Fprintln(r.out, labelStyle.Sprint("(no return values)"))
		return nil
	}
	for _, output := range result.Outputs {
		fmt.Fprintln(r.out, abi.FormatValue(output))
	}
	return nil
}

// InvocationJSON is the JSON form of an invocation
type InvocationJSON struct {
	Address     string                `json:"address"`
	Function    string                `json:"function"`
	Selector    string                `json:"selector"`
	Outputs     []string              `json:"outputs,omitempty"`
	TxHash      string                `json:"transactionHash,omitempty"`
	Status      string                `json:"status,omitempty"`
	BlockNumber uint64                `json:"blockNumber,omitempty"`
	GasUsed     uint64                `json:"gasUsed,omitempty"`
	Events      []domain.DecodedEvent `json:"events,omitempty"`
}

// NewInvocationJSON converts an invocation result
func NewInvocationJSON(result *usecase.InvokeContractResult) InvocationJSON {
	out := InvocationJSON{
		Address:  result.Address.Hex(),
		Function: result.Method.Signature,
		Selector: result.Method.Selector,
		Outputs:  lo.Map(result.Outputs, func(v any, _ int) string { return abi.FormatValue(v) }),
	}
	if result.Receipt != nil {
		out.TxHash = result.Receipt.TxHash.Hex()
		out.Status = string(result.Receipt.Status)
		out.BlockNumber = result.Receipt.BlockNumber
		out.GasUsed = result.Receipt.GasUsed
		out.Events = result.Events
	}
	return out
}
