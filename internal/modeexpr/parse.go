package modeexpr

import (
	"fmt"
	"strings"

	"github.com/Fuonder/dagfs.git/internal/models"
)

const (
	maxOctalDigits = 4

	opAdd    = '+'
	opRemove = '-'
	opSet    = '='

	whoUser  = 'u'
	whoGroup = 'g'
	whoOther = 'o'
	whoAll   = 'a'

	clauseSep = ","
)

// Parse turns a mode specification into an expression. Nothing is evaluated
// here, so "X" stays symbolic until Apply sees the entry.
func Parse(spec string) (Expression, error) {
	if spec == "" {
		return nil, &ParseError{Reason: "empty mode expression"}
	}
	if isDigits(spec) {
		op, err := parseNumeric(spec)
		if err != nil {
			return nil, err
		}
		return Expression{op}, nil
	}

	clauses := strings.Split(spec, clauseSep)
	expr := make(Expression, 0, len(clauses))
	for i, clause := range clauses {
		op, err := parseClause(i, clause)
		if err != nil {
			return nil, err
		}
		expr = append(expr, op)
	}
	return expr, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(spec string) Expression {
	expr, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return expr
}

// FromMode wraps an already numeric mode into an absolute expression.
func FromMode(m models.Mode) (Expression, error) {
	if !m.Valid() {
		return nil, &ParseError{Clause: fmt.Sprintf("%o", uint32(m)), Reason: "mode out of range 0-7777"}
	}
	return Expression{Absolute(m)}, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseNumeric(spec string) (Operation, error) {
	digits := spec
	if len(digits) == maxOctalDigits+1 && digits[0] == '0' {
		digits = digits[1:]
	}
	if len(digits) > maxOctalDigits {
		return Operation{}, &ParseError{Clause: spec, Reason: "numeric mode has more than 4 octal digits"}
	}
	m, err := models.ParseOctal(digits)
	if err != nil {
		return Operation{}, &ParseError{Clause: spec, Reason: "numeric mode must be octal"}
	}
	return Absolute(m), nil
}

func parseClause(index int, clause string) (Operation, error) {
	fail := func(format string, args ...any) (Operation, error) {
		return Operation{}, &ParseError{Index: index, Clause: clause, Reason: fmt.Sprintf(format, args...)}
	}
	if clause == "" {
		return fail("empty clause")
	}

	var op Operation
	i := 0
	for ; i < len(clause); i++ {
		w, ok := whoOf(clause[i])
		if !ok {
			break
		}
		op.Who |= w
	}
	if op.Who == 0 {
		op.Who = WhoAll
	}

	if i == len(clause) {
		return fail("missing operator")
	}
	switch clause[i] {
	case opAdd:
		op.Op = OpAdd
	case opRemove:
		op.Op = OpRemove
	case opSet:
		op.Op = OpSet
	default:
		return fail("unknown who or operator character %q", clause[i])
	}
	i++

	if i == len(clause) {
		return fail("empty permission set")
	}
	for ; i < len(clause); i++ {
		c := clause[i]
		if c == opAdd || c == opRemove || c == opSet {
			return fail("more than one operator")
		}
		p, ok := permOf(c)
		if !ok {
			return fail("unknown permission character %q", c)
		}
		op.Perm |= p
	}
	return op, nil
}

func whoOf(c byte) (Who, bool) {
	switch c {
	case whoUser:
		return WhoUser, true
	case whoGroup:
		return WhoGroup, true
	case whoOther:
		return WhoOther, true
	case whoAll:
		return WhoAll, true
	}
	return 0, false
}

func permOf(c byte) (Perm, bool) {
	for _, pc := range permChars {
		if pc.c == c {
			return pc.p, true
		}
	}
	return 0, false
}
