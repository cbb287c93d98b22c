package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-create2/internal/domain"
)

const maxSuggestions = 3

// MethodInfo describes one callable ABI function
type MethodInfo struct {
	Name            string   `json:"name"`
	Signature       string   `json:"signature"`
	Selector        string   `json:"selector"`
	StateMutability string   `json:"stateMutability"`
	Inputs          []string `json:"inputs"`
	Outputs         []string `json:"outputs"`
}

// ReadOnly reports whether the function can be executed with eth_call
func (m MethodInfo) ReadOnly() bool {
	return m.StateMutability == "view" || m.StateMutability == "pure"
}

type methodEntry struct {
	method abi.Method
}

func (e *methodEntry) encode(args []any) ([]byte, error) {
	if len(args) != len(e.method.Inputs) {
		return nil, &domain.ArgumentMismatchError{
			Method: e.method.Sig,
			Reason: fmt.Sprintf("expected %d arguments, got %d", len(e.method.Inputs), len(args)),
		}
	}

	packed, err := e.method.Inputs.Pack(args...)
	if err != nil {
		return nil, &domain.ArgumentMismatchError{Method: e.method.Sig, Reason: "cannot encode", Err: err}
	}

	data := make([]byte, 0, len(e.method.ID)+len(packed))
	data = append(data, e.method.ID...)
	return append(data, packed...), nil
}

func (e *methodEntry) decode(data []byte) ([]any, error) {
	if len(e.method.Outputs) == 0 {
		return []any{}, nil
	}
	values, err := e.method.Outputs.Unpack(data)
	if err != nil {
		return nil, &domain.DecodeError{Method: e.method.Sig, Data: data, Err: err}
	}
	return values, nil
}

func (e *methodEntry) info() MethodInfo {
	mutability := e.method.StateMutability
	if mutability == "" && e.method.IsConstant() {
		mutability = "view"
	}
	return MethodInfo{
		Name:            e.method.RawName,
		Signature:       e.method.Sig,
		Selector:        hexutil.Encode(e.method.ID),
		StateMutability: mutability,
		Inputs:          argumentTypes(e.method.Inputs),
		Outputs:         argumentTypes(e.method.Outputs),
	}
}

// methodTable indexes ABI functions by name and canonical signature.
// It is built once per handle and never mutated.
type methodTable struct {
	bySig  map[string]*methodEntry
	byName map[string][]*methodEntry
	names  []string
}

func newMethodTable(contractABI abi.ABI) *methodTable {
	t := &methodTable{
		bySig:  make(map[string]*methodEntry, len(contractABI.Methods)),
		byName: make(map[string][]*methodEntry),
	}
	for _, method := range contractABI.Methods {
		entry := &methodEntry{method: method}
		t.bySig[method.Sig] = entry
		t.byName[method.RawName] = append(t.byName[method.RawName], entry)
	}
	for name, entries := range t.byName {
		sort.Slice(entries, func(i, j int) bool { return entries[i].method.Sig < entries[j].method.Sig })
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)
	return t
}

// resolve finds the function for name. Overloads are resolved by argument
// count; a full signature such as "transfer(address,uint256)" selects one
// directly.
func (t *methodTable) resolve(name string, argc int) (*methodEntry, error) {
	if strings.Contains(name, "(") {
		sig := strings.ReplaceAll(name, " ", "")
		if entry, ok := t.bySig[sig]; ok {
			return entry, nil
		}
		raw := sig[:strings.Index(sig, "(")]
		return nil, &domain.FunctionNotFoundError{Name: name, Suggestions: t.signatures(raw)}
	}

	entries := t.byName[name]
	switch len(entries) {
	case 0:
		return nil, &domain.FunctionNotFoundError{Name: name, Suggestions: t.suggest(name)}
	case 1:
		return entries[0], nil
	}

	matching := lo.Filter(entries, func(e *methodEntry, _ int) bool { return len(e.method.Inputs) == argc })
	if len(matching) == 1 {
		return matching[0], nil
	}
	return nil, &domain.ArgumentMismatchError{
		Method: name,
		Reason: fmt.Sprintf("%d overloads take %d arguments, call by signature: %s",
			len(matching), argc, strings.Join(t.signatures(name), ", ")),
	}
}

func (t *methodTable) signatures(name string) []string {
	return lo.Map(t.byName[name], func(e *methodEntry, _ int) string { return e.method.Sig })
}

func (t *methodTable) suggest(name string) []string {
	var suggestions []string
	for _, candidate := range t.names {
		if strings.EqualFold(candidate, name) {
			suggestions = append(suggestions, candidate)
		}
	}
	for _, match := range fuzzy.Find(name, t.names) {
		suggestions = append(suggestions, match.Str)
	}
	suggestions = lo.Uniq(suggestions)
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func (t *methodTable) list() []MethodInfo {
	infos := make([]MethodInfo, 0, len(t.bySig))
	for _, name := range t.names {
		for _, entry := range t.byName[name] {
			infos = append(infos, entry.info())
		}
	}
	return infos
}

func argumentTypes(args abi.Arguments) []string {
	return lo.Map(args, func(arg abi.Argument, _ int) string {
		if arg.Name == "" {
			return arg.Type.String()
		}
		return arg.Type.String() + " " + arg.Name
	})
}
