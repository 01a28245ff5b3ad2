// Package models содержит общие типы данных: права доступа (Mode), тип записи
// дерева файлов и структуры, которые возвращаются пользователю (Stat, DirEntry, FSStat).
package models

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidMode — значение режима не является восьмеричным числом в диапазоне 0-7777.
var ErrInvalidMode = errors.New("invalid mode")

// Mode — 12-битовое значение прав доступа: 3 специальных бита и 9 бит rwx.
type Mode uint32

const (
	// OsRead — право на чтение.
	OsRead = 04
	// OsWrite — право на запись.
	OsWrite = 02
	// OsEx — право на выполнение.
	OsEx = 01

	// OsUserShift — смещение для прав пользователя (User).
	OsUserShift = 6
	// OsGroupShift — смещение для прав группы (Group).
	OsGroupShift = 3
	// OsOthShift — смещение для прав остальных (Others).
	OsOthShift = 0

	OsUserR   Mode = OsRead << OsUserShift
	OsUserW   Mode = OsWrite << OsUserShift
	OsUserX   Mode = OsEx << OsUserShift
	OsUserRwx      = OsUserR | OsUserW | OsUserX

	OsGroupR   Mode = OsRead << OsGroupShift
	OsGroupW   Mode = OsWrite << OsGroupShift
	OsGroupX   Mode = OsEx << OsGroupShift
	OsGroupRwx      = OsGroupR | OsGroupW | OsGroupX

	OsOthR   Mode = OsRead << OsOthShift
	OsOthW   Mode = OsWrite << OsOthShift
	OsOthX   Mode = OsEx << OsOthShift
	OsOthRwx      = OsOthR | OsOthW | OsOthX

	// OsAllR — права на чтение для всех (пользователь, группа и другие).
	OsAllR = OsUserR | OsGroupR | OsOthR
	// OsAllW — права на запись для всех.
	OsAllW = OsUserW | OsGroupW | OsOthW
	// OsAllX — права на выполнение для всех.
	OsAllX = OsUserX | OsGroupX | OsOthX
	// OsAllRw — права на чтение и запись для всех.
	OsAllRw = OsAllR | OsAllW
	// OsAllRwx — все права для всех.
	OsAllRwx = OsAllRw | OsAllX
)

const (
	// ModeSetUID — бит set-user-id.
	ModeSetUID Mode = 04000
	// ModeSetGID — бит set-group-id.
	ModeSetGID Mode = 02000
	// ModeSticky — sticky бит.
	ModeSticky Mode = 01000

	// ModePerm — маска 9 бит rwx.
	ModePerm Mode = 0777
	// ModeSpecial — маска специальных битов.
	ModeSpecial = ModeSetUID | ModeSetGID | ModeSticky
	// ModeMask — все представимые биты. Всё, что выше, не хранится.
	ModeMask = ModeSpecial | ModePerm
)

const (
	// DefaultFileMode — права нового файла.
	DefaultFileMode Mode = 0644
	// DefaultDirMode — права нового каталога.
	DefaultDirMode Mode = 0755
)

// ParseOctal разбирает восьмеричную запись прав ("755", "0644", "04755").
func ParseOctal(s string) (Mode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidMode, s, err)
	}
	m := Mode(v)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %o out of range", ErrInvalidMode, v)
	}
	return m, nil
}

// Valid сообщает, помещается ли значение в 12 бит.
func (m Mode) Valid() bool {
	return m&^ModeMask == 0
}

// Perm возвращает 9 бит rwx.
func (m Mode) Perm() Mode {
	return m & ModePerm
}

// Special возвращает setuid/setgid/sticky.
func (m Mode) Special() Mode {
	return m & ModeSpecial
}

// AnyExec сообщает, установлен ли хотя бы один бит выполнения.
func (m Mode) AnyExec() bool {
	return m&OsAllX != 0
}

func (m Mode) String() string {
	return fmt.Sprintf("%04o", uint32(m&ModeMask))
}

// Symbolic возвращает запись в стиле ls: "rwsr-xr-t".
func (m Mode) Symbolic() string {
	const rwx = "rwxrwxrwx"
	buf := []byte("---------")
	for i := 0; i < 9; i++ {
		if m&(1<<uint(8-i)) != 0 {
			buf[i] = rwx[i]
		}
	}
	special := func(idx int, bit Mode, set, unset byte) {
		if m&bit == 0 {
			return
		}
		if buf[idx] == 'x' {
			buf[idx] = set
		} else {
			buf[idx] = unset
		}
	}
	special(2, ModeSetUID, 's', 'S')
	special(5, ModeSetGID, 's', 'S')
	special(8, ModeSticky, 't', 'T')
	return string(buf)
}
