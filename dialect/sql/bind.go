package sql

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/viant/xunsafe"

	"github.com/syssam/dbcmd"
	"github.com/syssam/dbcmd/dialect"
)

// MissingParamError is returned when a statement references a parameter the
// bag does not hold.
type MissingParamError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingParamError) Error() string {
	return fmt.Sprintf("dialect/sql: missing parameter @%s", e.Name)
}

// Bind turns a parameter bag into an ordered argument list. A bag is either
// dbcmd.Args, as produced by generated projectors for renamed fields, or a
// struct (or pointer to one) whose named fields are bound by field name.
// Embedded fields and fields tagged `db:"-"` are skipped.
func Bind(bag any) (dbcmd.Args, error) {
	switch bag := bag.(type) {
	case nil:
		return nil, nil
	case dbcmd.Args:
		return bag, nil
	case []dbcmd.Arg:
		return dbcmd.Args(bag), nil
	}
	rv := reflect.ValueOf(bag)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("dialect/sql: nil parameter bag %T", bag)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("dialect/sql: invalid parameter bag %T. expect struct or dbcmd.Args", bag)
	}
	// Copy into an addressable value so unexported fields can be read.
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	addr := xunsafe.AsPointer(ptr.Interface())
	fields := bagFields(rv.Type())
	args := make(dbcmd.Args, len(fields))
	for i, f := range fields {
		args[i] = dbcmd.Named(f.name, f.field.Value(addr))
	}
	return args, nil
}

type bagField struct {
	name  string
	field *xunsafe.Field
}

var bagFieldCache sync.Map // reflect.Type -> []bagField

func bagFields(t reflect.Type) []bagField {
	if v, ok := bagFieldCache.Load(t); ok {
		return v.([]bagField)
	}
	var fields []bagField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous || sf.Name == "_" || sf.Tag.Get("db") == "-" {
			continue
		}
		fields = append(fields, bagField{name: sf.Name, field: xunsafe.NewField(sf)})
	}
	v, _ := bagFieldCache.LoadOrStore(t, fields)
	return v.([]bagField)
}

// rebind rewrites @name placeholders into the positional style of the
// dialect and returns the matching argument list. Quoted strings, quoted
// identifiers, comments and @@variables are left untouched.
func rebind(d, query string, args dbcmd.Args) (string, []any, error) {
	if !strings.Contains(query, "@") {
		return query, []any{}, nil
	}
	var (
		b     strings.Builder
		argv  = []any{}
		index = make(map[string]int)
	)
	b.Grow(len(query))
	for i := 0; i < len(query); {
		c := query[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			j := skipQuoted(query, i)
			b.WriteString(query[i:j])
			i = j
		case c == '-' && strings.HasPrefix(query[i:], "--"):
			j := strings.IndexByte(query[i:], '\n')
			if j < 0 {
				j = len(query) - i
			}
			b.WriteString(query[i : i+j])
			i += j
		case c == '/' && strings.HasPrefix(query[i:], "/*"):
			j := strings.Index(query[i+2:], "*/")
			end := len(query)
			if j >= 0 {
				end = i + 2 + j + 2
			}
			b.WriteString(query[i:end])
			i = end
		case c == '@' && i+1 < len(query) && query[i+1] == '@':
			j := i + 2
			for j < len(query) && isIdentByte(query[j]) {
				j++
			}
			b.WriteString(query[i:j])
			i = j
		case c == '@' && i+1 < len(query) && isIdentStart(query[i+1]):
			j := i + 1
			for j < len(query) && isIdentByte(query[j]) {
				j++
			}
			name := query[i+1 : j]
			v, ok := args.Lookup(name)
			if !ok {
				return "", nil, &MissingParamError{Name: name}
			}
			if d == dialect.Postgres {
				n, seen := index[name]
				if !seen {
					argv = append(argv, v)
					n = len(argv)
					index[name] = n
				}
				b.WriteByte('$')
				b.WriteString(strconv.Itoa(n))
			} else {
				argv = append(argv, v)
				b.WriteByte('?')
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), argv, nil
}

// skipQuoted returns the index after the quoted section starting at i.
// A doubled quote character is an escaped quote.
func skipQuoted(s string, i int) int {
	q := s[i]
	j := i + 1
	for j < len(s) {
		if s[j] == q {
			if j+1 < len(s) && s[j+1] == q {
				j += 2
				continue
			}
			return j + 1
		}
		j++
	}
	return len(s)
}

func isIdentStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || '0' <= c && c <= '9'
}
