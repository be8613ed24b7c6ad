package metadata

import (
	"fmt"
	"io/fs"
)

// Kind represents the type of filesystem entry.
type Kind uint8

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
)

// Code returns the one-letter identifier used in the manifest.
func (k Kind) Code() string {
	switch k {
	case KindDir:
		return "d"
	case KindSymlink:
		return "s"
	default:
		return "f"
	}
}

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "file"
	}
}

// KindFromCode parses a one-letter manifest identifier.
func KindFromCode(code string) (Kind, error) {
	switch code {
	case "f":
		return KindFile, nil
	case "d":
		return KindDir, nil
	case "s":
		return KindSymlink, nil
	}
	return 0, fmt.Errorf("%w: type code %q", ErrUnsupportedKind, code)
}

// KindFromMode derives the Kind from a file mode. The symlink check
// comes first so a link is reported as a link even when its target is a
// directory. Sockets, devices and fifos are unsupported.
func KindFromMode(mode fs.FileMode) (Kind, error) {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindSymlink, nil
	case mode.IsDir():
		return KindDir, nil
	case mode.IsRegular():
		return KindFile, nil
	}
	return 0, fmt.Errorf("%w: mode %v", ErrUnsupportedKind, mode)
}
