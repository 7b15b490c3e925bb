// Package distparse parses the distance expressions a user types into the
// calibration dialog: "12", "12 ft", "3.5m", "12' 6\"", "2 m 30 cm".
// A parsed distance is reduced to a single value in the unit of its first
// term; a bare number carries no unit and adopts the caller's default.
package distparse

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

// Distance is the result of parsing one distance expression.
type Distance struct {
	Value float64
	// Unit is empty when the expression was a bare number.
	Unit measure.Unit
}

// expr is the participle AST: one or more number/unit terms.
type expr struct {
	Terms []*term `parser:"@@+"`
}

type term struct {
	Value float64 `parser:"@Number"`
	Unit  string  `parser:"@(Ident | FootMark | InchMark)?"`
}

var distLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "Number", Pattern: `[0-9]*\.?[0-9]+`},
	{Name: "FootMark", Pattern: `'`},
	{Name: "InchMark", Pattern: `"`},
	{Name: "Ident", Pattern: `[a-zA-Z]+`},
})

var parser = participle.MustBuild[expr](
	participle.Lexer(distLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a distance expression. Multi-term expressions are summed in
// the unit of the first term; a trailing unitless term after a feet term is
// read as inches ("12' 6").
func Parse(input string) (Distance, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Distance{}, fmt.Errorf("distparse: empty input")
	}

	ast, err := parser.ParseString("", input)
	if err != nil {
		return Distance{}, fmt.Errorf("distparse: %w", err)
	}

	if len(ast.Terms) == 1 && ast.Terms[0].Unit == "" {
		return Distance{Value: ast.Terms[0].Value}, nil
	}

	var total float64
	var first measure.Unit
	for i, t := range ast.Terms {
		u, err := termUnit(t, i, first)
		if err != nil {
			return Distance{}, err
		}
		if i == 0 {
			first = u
			total = t.Value
			continue
		}
		total += measure.Convert(t.Value, u, first)
	}
	return Distance{Value: total, Unit: first}, nil
}

// ParseDefault parses input and applies def to a bare number. The result
// must be positive; calibration rejects zero and negative distances at this
// boundary.
func ParseDefault(input string, def measure.Unit) (float64, measure.Unit, error) {
	d, err := Parse(input)
	if err != nil {
		return 0, "", err
	}
	if d.Unit == "" {
		d.Unit = def
	}
	if d.Value <= 0 {
		return 0, "", fmt.Errorf("distparse: distance must be positive, got %v", d.Value)
	}
	return d.Value, d.Unit, nil
}

func termUnit(t *term, index int, first measure.Unit) (measure.Unit, error) {
	if t.Unit == "" {
		// "12' 6" reads the unitless tail as inches.
		if index > 0 && first == measure.Feet {
			return measure.Inches, nil
		}
		return "", fmt.Errorf("distparse: term %d is missing a unit", index+1)
	}
	u, err := measure.ParseUnit(t.Unit)
	if err != nil {
		return "", fmt.Errorf("distparse: %w", err)
	}
	if !u.Valid() {
		return "", fmt.Errorf("distparse: %q is not a length unit", t.Unit)
	}
	return u, nil
}
