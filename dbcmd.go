// Package dbcmd declares the marker contracts and parameter types shared by
// declarations and the code generated for them.
//
// A declaration is a struct whose doc comment carries //dbcmd: directives.
// Embedding Command[R] or Query[R] tells the generator what the operation
// returns:
//
//	//dbcmd:procedure create_user
//	//dbcmd:nonquery
//	type CreateUser struct {
//		dbcmd.Command[int64]
//
//		FullName string
//		Email    string `db:"email_address"`
//	}
//
// Running `dbcmd generate` next to the declaration produces a Params method
// (the projector) and, when command text is present, an ExecCreateUser
// function executing the procedure through dialect/sql.
package dbcmd

import "slices"

// Command marks a declaration as a data-access command producing R.
// It holds no data and is only meant to be embedded.
type Command[R any] struct{}

func (Command[R]) commandResult(R) {}

// Query marks a declaration as a data-access query producing R.
// It holds no data and is only meant to be embedded.
type Query[R any] struct{}

func (Query[R]) queryResult(R) {}

// Commander is implemented by declarations embedding Command[R].
type Commander[R any] interface {
	commandResult(R)
}

// Querier is implemented by declarations embedding Query[R].
type Querier[R any] interface {
	queryResult(R)
}

// Projector is implemented by generated code. Params returns the parameter
// bag of a declaration: either the declaration itself, when every field keeps
// its name, or an Args list holding the renamed parameters.
type Projector interface {
	Params() any
}

// Arg is a single named parameter.
type Arg struct {
	Name  string
	Value any
}

// Named returns a named parameter.
func Named(name string, value any) Arg {
	return Arg{Name: name, Value: value}
}

// Args is an ordered parameter bag.
type Args []Arg

// Names returns the parameter names in order.
func (a Args) Names() []string {
	names := make([]string, len(a))
	for i := range a {
		names[i] = a[i].Name
	}
	return names
}

// Lookup returns the value of the first parameter with the given name.
func (a Args) Lookup(name string) (any, bool) {
	i := slices.IndexFunc(a, func(arg Arg) bool { return arg.Name == name })
	if i < 0 {
		return nil, false
	}
	return a[i].Value, true
}
