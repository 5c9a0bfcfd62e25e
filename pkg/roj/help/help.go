// Package help describes the Roj language for `roj describe` and the REPL's
// :help command. Topics are keywords, operators, types, statement forms and
// error codes.
package help

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sambeau/roj/pkg/roj/errors"
)

// TopicResult represents the help output for a topic
type TopicResult struct {
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Syntax      string   `json:"syntax,omitempty"`
	Description string   `json:"description,omitempty"`
	Precedence  int      `json:"precedence,omitempty"`
	Hints       []string `json:"hints,omitempty"`
	Items       []Item   `json:"items,omitempty"`
}

// Item is one row of a list topic.
type Item struct {
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Syntax      string `json:"syntax,omitempty"`
	Description string `json:"description"`
	Precedence  int    `json:"precedence,omitempty"`
}

// ListTopics are the topics that list a whole family.
var ListTopics = []string{"keywords", "operators", "types", "statements", "errors"}

// DescribeTopic returns help for topic: a list topic, a keyword, an operator
// symbol, a type name or an error code such as TYPE-0003.
func DescribeTopic(topic string) (*TopicResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("no topic specified (try: %s)", strings.Join(ListTopics, ", "))
	}

	switch strings.ToLower(topic) {
	case "keywords":
		return listResult("keyword-list", "keywords", keywordDocs), nil
	case "operators":
		return listResult("operator-list", "operators", operatorDocs), nil
	case "types":
		return listResult("type-list", "types", typeDocs), nil
	case "statements":
		return listResult("statement-list", "statements", statementDocs), nil
	case "errors":
		return describeErrors(), nil
	}

	if item, ok := lookup(keywordDocs, topic); ok {
		return itemResult("keyword", item), nil
	}
	if item, ok := lookup(operatorDocs, topic); ok {
		return itemResult("operator", item), nil
	}
	if item, ok := lookup(typeDocs, topic); ok {
		return itemResult("type", item), nil
	}
	if def, ok := errors.ErrorCatalog[strings.ToUpper(topic)]; ok {
		return &TopicResult{
			Kind:        "error",
			Name:        strings.ToUpper(topic),
			Category:    string(def.Class),
			Description: def.Template,
			Hints:       def.Hints,
		}, nil
	}

	return nil, unknownTopicError(topic)
}

// lookup finds an item by exact name first, then ignoring case.
func lookup(items []Item, name string) (Item, bool) {
	for _, item := range items {
		if item.Name == name {
			return item, true
		}
	}
	for _, item := range items {
		if strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return Item{}, false
}

func itemResult(kind string, item Item) *TopicResult {
	return &TopicResult{
		Kind:        kind,
		Name:        item.Name,
		Category:    item.Category,
		Syntax:      item.Syntax,
		Description: item.Description,
		Precedence:  item.Precedence,
	}
}

func listResult(kind, name string, items []Item) *TopicResult {
	return &TopicResult{Kind: kind, Name: name, Items: append([]Item(nil), items...)}
}

func describeErrors() *TopicResult {
	codes := make([]string, 0, len(errors.ErrorCatalog))
	for code := range errors.ErrorCatalog {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	items := make([]Item, 0, len(codes))
	for _, code := range codes {
		def := errors.ErrorCatalog[code]
		items = append(items, Item{Name: code, Category: string(def.Class), Description: def.Template})
	}
	return &TopicResult{Kind: "error-list", Name: "errors", Items: items}
}

// unknownTopicError suggests the closest known topic, if any is close enough.
func unknownTopicError(topic string) error {
	if match := errors.FindClosestMatch(topic, allTopicNames()); match != "" {
		return fmt.Errorf("unknown topic: %s\nDid you mean: %s?", topic, match)
	}
	return fmt.Errorf("unknown topic: %s\nTry: %s, or a keyword such as while", topic, strings.Join(ListTopics, ", "))
}

func allTopicNames() []string {
	names := append([]string(nil), ListTopics...)
	for _, items := range [][]Item{keywordDocs, operatorDocs, typeDocs} {
		for _, item := range items {
			names = append(names, item.Name)
		}
	}
	return names
}

var keywordDocs = []Item{
	{Name: "Null", Category: "literal", Syntax: "Null", Description: "The absent value. Falsy."},
	{Name: "True", Category: "literal", Syntax: "True", Description: "Boolean true."},
	{Name: "False", Category: "literal", Syntax: "False", Description: "Boolean false."},
	{Name: "or", Category: "logical", Syntax: "a or b", Description: "Boolean or. Both sides are evaluated and must be booleans."},
	{Name: "and", Category: "logical", Syntax: "a and b", Description: "Boolean and. Both sides are evaluated and must be booleans."},
	{Name: "not", Category: "logical", Syntax: "not a", Description: "Boolean negation of a boolean operand."},
	{Name: "do", Category: "block", Syntax: "do <statements> end", Description: "Opens the body of while, if and else."},
	{Name: "end", Category: "block", Syntax: "do <statements> end", Description: "Closes a block opened by do."},
	{Name: "while", Category: "control", Syntax: "while <condition> do <statements> end", Description: "Repeats the body while the condition is truthy. Evaluates to Null."},
	{Name: "if", Category: "control", Syntax: "if <condition> do <statements> end [else do <statements> end]", Description: "Runs the first block when the condition is truthy, otherwise the else block."},
	{Name: "else", Category: "control", Syntax: "... end else do <statements> end", Description: "The alternative block of an if."},
	{Name: "out", Category: "io", Syntax: "out <expression>", Description: "Writes the value on its own line, prefixed with [out]: ."},
	{Name: "read", Category: "io", Syntax: "read <name>", Description: "Reads one line of input into name as a string."},
	{Name: "readint", Category: "io", Syntax: "readint <name>", Description: "Reads one line of input into name as an integer."},
	{Name: "readfloat", Category: "io", Syntax: "readfloat <name>", Description: "Reads one line of input into name as a float."},
	{Name: "readbool", Category: "io", Syntax: "readbool <name>", Description: "Reads one line of input into name. The line must be True or False."},
	{Name: "stop", Category: "signal", Syntax: "stop", Description: "Leaves the innermost while loop."},
	{Name: "halt", Category: "signal", Syntax: "halt [<expression>]", Description: "Ends the program with an optional payload."},
	{Name: "jumpover", Category: "signal", Syntax: "jumpover", Description: "Skips the rest of the loop body and goes on to the next iteration."},
	{Name: "return", Category: "signal", Syntax: "return [<expression>]", Description: "Reserved for functions. Inside a sequence it is ignored; reaching the top level is an error."},
}

var operatorDocs = []Item{
	{Name: "=", Category: "assignment", Syntax: "name = value", Description: "Binds name to value. Right-associative, so a = b = 1 binds both.", Precedence: 1},
	{Name: "or", Category: "logical", Syntax: "a or b", Description: "Boolean or, no short-circuit.", Precedence: 2},
	{Name: "and", Category: "logical", Syntax: "a and b", Description: "Boolean and, no short-circuit.", Precedence: 3},
	{Name: "not", Category: "logical", Syntax: "not a", Description: "Boolean negation.", Precedence: 4},
	{Name: "==", Category: "comparison", Syntax: "a == b", Description: "Equal. Integers and floats compare by value; other types must match.", Precedence: 5},
	{Name: "!=", Category: "comparison", Syntax: "a != b", Description: "Not equal.", Precedence: 5},
	{Name: "<", Category: "comparison", Syntax: "a < b", Description: "Less than, numbers only.", Precedence: 5},
	{Name: ">", Category: "comparison", Syntax: "a > b", Description: "Greater than, numbers only.", Precedence: 5},
	{Name: "<=", Category: "comparison", Syntax: "a <= b", Description: "Less than or equal, numbers only.", Precedence: 5},
	{Name: ">=", Category: "comparison", Syntax: "a >= b", Description: "Greater than or equal, numbers only.", Precedence: 5},
	{Name: "+", Category: "arithmetic", Syntax: "a + b", Description: "Adds numbers or joins two strings. Also unary plus.", Precedence: 6},
	{Name: "-", Category: "arithmetic", Syntax: "a - b", Description: "Subtracts numbers. Also unary minus, which binds tighter than ^.", Precedence: 6},
	{Name: "*", Category: "arithmetic", Syntax: "a * b", Description: "Multiplies numbers.", Precedence: 7},
	{Name: "/", Category: "arithmetic", Syntax: "a / b", Description: "Divides numbers. The result is always a float.", Precedence: 7},
	{Name: "^", Category: "arithmetic", Syntax: "a ^ b", Description: "Power. Left-associative: 2 ^ 3 ^ 2 is 64.", Precedence: 8},
}

var typeDocs = []Item{
	{Name: "integer", Syntax: "42", Description: "64-bit signed integer. Arithmetic wraps on overflow. Zero is falsy."},
	{Name: "float", Syntax: "2.5", Description: "64-bit float, always shown with a decimal point or an exponent. Zero is falsy."},
	{Name: "boolean", Syntax: "True False", Description: "The result of comparisons and the operand type of and, or and not."},
	{Name: "string", Syntax: `"text"`, Description: "Text between double quotes. No escapes; may span lines. Empty is falsy."},
	{Name: "null", Syntax: "Null", Description: "The absent value. Falsy."},
}

var statementDocs = []Item{
	{Name: "sequence", Syntax: "<statement>; <statement>", Description: "Runs statements in order. A trailing ; is allowed."},
	{Name: "assignment", Syntax: "name = <expression>", Description: "Binds a variable in the single program-wide environment."},
	{Name: "output", Syntax: "out <expression>", Description: "Writes a value."},
	{Name: "input", Syntax: "read | readint | readfloat | readbool <name>", Description: "Reads one line into a variable."},
	{Name: "loop", Syntax: "while <condition> do <statements> end", Description: "Conditional loop; stop leaves it, jumpover continues it."},
	{Name: "conditional", Syntax: "if <condition> do <statements> end [else do <statements> end]", Description: "Two-way branch."},
	{Name: "control", Syntax: "stop | jumpover | halt [<e>] | return [<e>]", Description: "Control signals."},
	{Name: "comment", Syntax: "$ text $", Description: "Ignored text; may span lines."},
}
