package extract

import (
	"regexp"
	"strings"
)

// Kind classifies a single line of a definition file.
type Kind int

const (
	KindOther Kind = iota
	KindFunctionDeclaration
	KindFactoryCall
)

func (k Kind) String() string {
	switch k {
	case KindFunctionDeclaration:
		return "function"
	case KindFactoryCall:
		return "factory"
	default:
		return "other"
	}
}

// Statement is the classification of one line. ActionType is only set when
// the line itself carries it; Resolve fills it from the forward text.
type Statement struct {
	Kind       Kind
	Name       string
	ActionType string
}

const actionTypeExpr = `[A-Z_][A-Z0-9_]*`

var (
	functionDeclarationPattern = regexp.MustCompile(`\bfunction\s+([A-Za-z_$][\w$]*)`)
	// `return { ... type: FOO` where only words and whitespace precede `type:`.
	returnTypePattern = regexp.MustCompile(`\breturn\s+\{[\w\s]*?\btype:\s*(` + actionTypeExpr + `)\b`)
)

// DefaultFactories are the factory calls recognized when none are configured.
var DefaultFactories = []string{"createAction", "makeActionCreator"}

// Classifier recognizes action-creator definitions lexically.
type Classifier struct {
	factoryHeader *regexp.Regexp
	factoryCall   *regexp.Regexp
}

// NewClassifier builds a classifier for the given factory names. Names are
// quoted, so they are matched literally.
func NewClassifier(factories []string) *Classifier {
	quoted := quoteNames(factories)
	if len(quoted) == 0 {
		quoted = quoteNames(DefaultFactories)
	}
	names := strings.Join(quoted, "|")
	header := `^\s*(?:export\s+)?const\s+([A-Za-z_$][\w$]*)\s*=\s*(?:` + names + `)\s*\(`

	return &Classifier{
		factoryHeader: regexp.MustCompile(header),
		// The type must be followed by a second argument.
		factoryCall: regexp.MustCompile(header + `\s*(` + actionTypeExpr + `)\s*,`),
	}
}

func quoteNames(names []string) []string {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			quoted = append(quoted, regexp.QuoteMeta(name))
		}
	}
	return quoted
}

// Classify inspects one line. The function-declaration form wins over the
// factory form when both could apply.
func (c *Classifier) Classify(line string) Statement {
	if m := functionDeclarationPattern.FindStringSubmatch(line); m != nil {
		return Statement{Kind: KindFunctionDeclaration, Name: m[1]}
	}
	if m := c.factoryHeader.FindStringSubmatch(line); m != nil {
		stmt := Statement{Kind: KindFactoryCall, Name: m[1]}
		if call := c.factoryCall.FindStringSubmatch(line); call != nil {
			stmt.ActionType = call[2]
		}
		return stmt
	}
	return Statement{Kind: KindOther}
}

// Resolve finds the action type for stmt in forward, the file text starting
// at the statement's line. For function declarations this is the next
// `return { type: X }` literal anywhere after that point, even one that
// belongs to a later function.
func (c *Classifier) Resolve(stmt Statement, forward string) string {
	switch stmt.Kind {
	case KindFunctionDeclaration:
		if m := returnTypePattern.FindStringSubmatch(forward); m != nil {
			return m[1]
		}
	case KindFactoryCall:
		if stmt.ActionType != "" {
			return stmt.ActionType
		}
		// The call may wrap onto following lines.
		if m := c.factoryCall.FindStringSubmatch(forward); m != nil {
			return m[2]
		}
	}
	return ""
}
