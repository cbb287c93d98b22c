package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// ErrNonInteractive is returned when a prompt is needed in non-interactive mode
var ErrNonInteractive = errors.New("interactive prompt not available in non-interactive mode")

// SelectorAdapter handles interactive selection and confirmation
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectFunction lets the user pick one of methods
func (s *SelectorAdapter) SelectFunction(ctx context.Context, methods []usecase.MethodInfo, prompt string) (*usecase.MethodInfo, error) {
	if len(methods) == 0 {
		return nil, fmt.Errorf("no functions to select from")
	}
	if len(methods) == 1 {
		return &methods[0], nil
	}
	if s.config.NonInteractive {
		return nil, fmt.Errorf("function selection: %w", ErrNonInteractive)
	}

	options := formatMethodOptions(methods)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(searchKeys(methods)),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return &methods[index], nil
}

// Confirm asks a yes/no question. Non-interactive mode approves without asking.
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return true, nil
	}

	confirm := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// formatMethodOptions creates display strings like "setX(uint256) [nonpayable]"
func formatMethodOptions(methods []usecase.MethodInfo) []string {
	options := make([]string, len(methods))
	for i, method := range methods {
		signature := color.New(color.FgWhite, color.Bold).Sprint(method.Signature)
		mutability := color.New(color.FgBlue).Sprint(method.StateMutability)
		if method.ReadOnly() {
			mutability = color.New(color.FgGreen).Sprint(method.StateMutability)
		}
		options[i] = fmt.Sprintf("%s [%s]", signature, mutability)
		if len(method.Outputs) > 0 {
			options[i] += fmt.Sprintf(" returns (%s)", strings.Join(method.Outputs, ", "))
		}
	}
	return options
}

func searchKeys(methods []usecase.MethodInfo) []string {
	keys := make([]string, len(methods))
	for i, method := range methods {
		keys[i] = method.Signature + " " + method.Selector
	}
	return keys
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interfaces
var (
	_ usecase.FunctionSelector = (*SelectorAdapter)(nil)
	_ usecase.Confirmer        = (*SelectorAdapter)(nil)
)
