package binding

import (
	"strings"

	"github.com/partite-ai/fulano/hostval"
)

// UnionCase is one alternative of a closed tagged union. From is a fallible
// constructor: it inspects the host value and either produces the native
// representation of this case or reports false, without side effects.
type UnionCase struct {
	Name string
	From func(v hostval.Value) (any, bool)
}

// Union converts host values into one case of a closed tagged union. Cases
// are tried strictly in declaration order and the first successful
// constructor wins, so ordering is part of the union's contract: a case that
// accepts a superset of a later case's shapes masks it.
type Union struct {
	cases  []UnionCase
	target string
}

func NewUnion(cases ...UnionCase) *Union {
	names := make([]string, len(cases))
	for i, c := range cases {
		names[i] = c.Name
	}
	return &Union{
		cases:  cases,
		target: "Union[" + strings.Join(names, ", ") + "]",
	}
}

// Convert returns the first case whose constructor accepts v. When no case
// matches it returns a *ConversionError naming the argument, the host type
// of v and the full union.
func (u *Union) Convert(arg string, v hostval.Value) (any, error) {
	for _, c := range u.cases {
		if out, ok := c.From(v); ok {
			return out, nil
		}
	}
	return nil, &ConversionError{
		Arg:      arg,
		TypeName: v.TypeName(),
		Target:   u.target,
	}
}
