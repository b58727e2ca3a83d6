package ufs

import (
	iofs "io/fs"
)

// Type classifies a directory entry for size accounting.
type Type uint8

const (
	// TypeUnknown is used for entries that could not be inspected, Entry.Err
	// holds the reason.
	TypeUnknown Type = iota
	// TypeRegular is a regular file.
	TypeRegular
	// TypeDir is a directory that may be descended into.
	TypeDir
	// TypeLink is a symbolic link, or a directory that is a junction, mount
	// point or other reparse point. These are never followed.
	TypeLink
	// TypeOther covers devices, sockets, named pipes and the like.
	TypeOther
)

func (t Type) String() string {
	switch t {
	case TypeRegular:
		return "regular"
	case TypeDir:
		return "directory"
	case TypeLink:
		return "link"
	case TypeOther:
		return "other"
	default:
		return "unknown"
	}
}

// Entry is a single immediate child of a directory as returned by ReadDir.
type Entry struct {
	Name string
	Type Type
	// Size is the length in bytes, only populated for TypeRegular.
	Size int64
	// Err is set when the entry was listed but could not be inspected.
	Err error
}

// typeOf classifies an entry from its mode and, on platforms that have them,
// its directory and reparse point attributes. A reparse point only makes a
// link out of a directory. Files that carry one for another reason, such as
// deduplicated files and cloud placeholders, are still regular files.
func typeOf(mode iofs.FileMode, dir, reparse bool) Type {
	switch {
	case mode&iofs.ModeSymlink != 0:
		return TypeLink
	case dir || mode.IsDir():
		if reparse {
			return TypeLink
		}
		return TypeDir
	case mode&(iofs.ModeNamedPipe|iofs.ModeSocket|iofs.ModeDevice|iofs.ModeCharDevice) != 0:
		return TypeOther
	default:
		return TypeRegular
	}
}
