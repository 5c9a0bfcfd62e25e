package help

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatText formats a TopicResult for the terminal.
func FormatText(result *TopicResult) string {
	var sb strings.Builder

	switch result.Kind {
	case "keyword", "operator", "type":
		formatItemText(&sb, result)
	case "error":
		formatErrorText(&sb, result)
	case "keyword-list", "operator-list", "type-list", "statement-list", "error-list":
		formatListText(&sb, result)
	default:
		fmt.Fprintf(&sb, "Unknown result kind: %s\n", result.Kind)
	}

	return sb.String()
}

// FormatJSON formats a TopicResult as indented JSON.
func FormatJSON(result *TopicResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

func formatItemText(sb *strings.Builder, result *TopicResult) {
	title := strings.ToUpper(result.Kind[:1]) + result.Kind[1:]
	fmt.Fprintf(sb, "%s: %s\n", title, result.Name)
	if result.Category != "" {
		fmt.Fprintf(sb, "Category: %s\n", result.Category)
	}
	if result.Precedence > 0 {
		fmt.Fprintf(sb, "Precedence: %d (higher binds tighter)\n", result.Precedence)
	}
	if result.Syntax != "" {
		fmt.Fprintf(sb, "\n  %s\n", result.Syntax)
	}
	fmt.Fprintf(sb, "\n%s\n", result.Description)
}

func formatErrorText(sb *strings.Builder, result *TopicResult) {
	fmt.Fprintf(sb, "Error: %s (%s)\n\n  %s\n", result.Name, result.Category, result.Description)
	for _, hint := range result.Hints {
		fmt.Fprintf(sb, "  hint: %s\n", hint)
	}
}

func formatListText(sb *strings.Builder, result *TopicResult) {
	fmt.Fprintf(sb, "%s:\n", strings.ToUpper(result.Name[:1])+result.Name[1:])

	width := 0
	for _, item := range result.Items {
		width = max(width, len(listLabel(item)))
	}

	category := ""
	for _, item := range result.Items {
		if item.Category != "" && item.Category != category && result.Kind != "error-list" {
			category = item.Category
			fmt.Fprintf(sb, "\n  %s\n", category)
		}
		label := listLabel(item)
		fmt.Fprintf(sb, "    %s%s  %s\n", label, strings.Repeat(" ", width-len(label)), item.Description)
	}
}

func listLabel(item Item) string {
	if item.Syntax != "" && item.Category == "" {
		return item.Name + "  " + item.Syntax
	}
	return item.Name
}
