// Package modeexpr parses chmod style mode expressions and evaluates them
// against an entry's current mode.
//
// Two input forms are accepted. The numeric form is 1-4 octal digits (an
// extra leading zero is allowed) and replaces all 12 mode bits. The symbolic
// form is a comma separated list of clauses:
//
//	modespec := clause (',' clause)*
//	clause   := who* op perm+
//	who      := 'u' | 'g' | 'o' | 'a'
//	op       := '+' | '-' | '='
//	perm     := 'r' | 'w' | 'x' | 'X' | 's' | 't'
//
// A clause without who characters applies to everyone; there is no umask.
package modeexpr

import (
	"strings"

	"github.com/Fuonder/dagfs.git/internal/models"
)

// Who is a set of permission classes.
type Who uint8

const (
	WhoUser Who = 1 << iota
	WhoGroup
	WhoOther

	WhoAll = WhoUser | WhoGroup | WhoOther
)

func (w Who) String() string {
	if w == WhoAll {
		return "a"
	}
	var sb strings.Builder
	if w&WhoUser != 0 {
		sb.WriteByte('u')
	}
	if w&WhoGroup != 0 {
		sb.WriteByte('g')
	}
	if w&WhoOther != 0 {
		sb.WriteByte('o')
	}
	return sb.String()
}

// Op is the operator of a symbolic clause.
type Op uint8

const (
	OpAdd Op = iota + 1
	OpRemove
	OpSet
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpRemove:
		return "-"
	case OpSet:
		return "="
	default:
		return "?"
	}
}

// Perm is a set of permission tokens.
type Perm uint8

const (
	PermRead Perm = 1 << iota
	PermWrite
	PermExec
	// PermCondExec is "X": execute only for directories and for entries that
	// already had some execute bit before the invocation.
	PermCondExec
	// PermSetID is "s": setuid for u, setgid for g.
	PermSetID
	// PermSticky is "t" and ignores who.
	PermSticky
)

var permChars = []struct {
	p Perm
	c byte
}{
	{PermRead, 'r'},
	{PermWrite, 'w'},
	{PermExec, 'x'},
	{PermCondExec, 'X'},
	{PermSetID, 's'},
	{PermSticky, 't'},
}

func (p Perm) String() string {
	var sb strings.Builder
	for _, pc := range permChars {
		if p&pc.p != 0 {
			sb.WriteByte(pc.c)
		}
	}
	return sb.String()
}

// Operation is a single parsed clause, or the absolute assignment produced
// by the numeric form.
type Operation struct {
	Who  Who
	Op   Op
	Perm Perm

	absolute bool
	bits     models.Mode
}

// Absolute returns the operation that replaces all 12 bits with m.
func Absolute(m models.Mode) Operation {
	return Operation{Who: WhoAll, Op: OpSet, absolute: true, bits: m & models.ModeMask}
}

// IsAbsolute reports whether the operation came from the numeric form.
func (o Operation) IsAbsolute() bool {
	return o.absolute
}

func (o Operation) String() string {
	if o.absolute {
		return o.bits.String()
	}
	return o.Who.String() + o.Op.String() + o.Perm.String()
}

// Apply evaluates the operation. current is the mode produced by the
// preceding operations, prior is the entry's mode before the invocation
// started; only "X" looks at prior.
func (o Operation) Apply(current, prior models.Mode, isDir bool) models.Mode {
	if o.absolute {
		return o.bits
	}
	bits := o.resolve(prior, isDir)
	switch o.Op {
	case OpAdd:
		current |= bits
	case OpRemove:
		current &^= bits
	case OpSet:
		current = current&^o.scope() | bits
	}
	return current & models.ModeMask
}

// resolve expands who x perm into concrete bits.
func (o Operation) resolve(prior models.Mode, isDir bool) models.Mode {
	var rwx models.Mode
	if o.Perm&PermRead != 0 {
		rwx |= models.OsRead
	}
	if o.Perm&PermWrite != 0 {
		rwx |= models.OsWrite
	}
	if o.Perm&PermExec != 0 {
		rwx |= models.OsEx
	}
	if o.Perm&PermCondExec != 0 && (isDir || prior.AnyExec()) {
		rwx |= models.OsEx
	}

	var bits models.Mode
	if o.Who&WhoUser != 0 {
		bits |= rwx << models.OsUserShift
		if o.Perm&PermSetID != 0 {
			bits |= models.ModeSetUID
		}
	}
	if o.Who&WhoGroup != 0 {
		bits |= rwx << models.OsGroupShift
		if o.Perm&PermSetID != 0 {
			bits |= models.ModeSetGID
		}
	}
	if o.Who&WhoOther != 0 {
		bits |= rwx << models.OsOthShift
	}
	if o.Perm&PermSticky != 0 {
		bits |= models.ModeSticky
	}
	return bits
}

// scope is the set of bits an "=" clause replaces.
func (o Operation) scope() models.Mode {
	var m models.Mode
	if o.Who&WhoUser != 0 {
		m |= models.OsUserRwx
		if o.Perm&PermSetID != 0 {
			m |= models.ModeSetUID
		}
	}
	if o.Who&WhoGroup != 0 {
		m |= models.OsGroupRwx
		if o.Perm&PermSetID != 0 {
			m |= models.ModeSetGID
		}
	}
	if o.Who&WhoOther != 0 {
		m |= models.OsOthRwx
	}
	if o.Perm&PermSticky != 0 {
		m |= models.ModeSticky
	}
	return m
}

// Expression is an ordered list of operations applied left to right.
type Expression []Operation

// Apply folds every operation over mode. The entry's mode as passed in is
// the prior mode used for "X".
func (e Expression) Apply(mode models.Mode, isDir bool) models.Mode {
	prior := mode & models.ModeMask
	current := prior
	for _, op := range e {
		current = op.Apply(current, prior, isDir)
	}
	return current
}

func (e Expression) String() string {
	parts := make([]string, 0, len(e))
	for _, op := range e {
		parts = append(parts, op.String())
	}
	return strings.Join(parts, ",")
}
