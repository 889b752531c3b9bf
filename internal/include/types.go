package include

import "fmt"

type ErrorKind int

const (
	ErrorFileNotFound ErrorKind = iota
	ErrorCycleDetected
	ErrorReadError
	ErrorFileTooLarge
	ErrorDepthExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorFileNotFound:
		return "file not found"
	case ErrorCycleDetected:
		return "include cycle"
	case ErrorReadError:
		return "read error"
	case ErrorFileTooLarge:
		return "file too large"
	case ErrorDepthExceeded:
		return "include depth exceeded"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    ErrorKind
	Path    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

type Limits struct {
	MaxIncludeDepth  int   `yaml:"max_include_depth"`
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxIncludeDepth:  32,
		MaxFileSizeBytes: 64 << 20,
	}
}
