// Package exitcode provides standardized exit codes for souffle-content
package exitcode

// Exit codes for the souffle-content CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3 // malformed JSON or a record failing its schema
	FileSystemError = 4 // missing content root, missing lesson.json, manifest write failure
	NetworkError    = 5
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case NetworkError:
		return "Network error"
	default:
		return "Unknown error"
	}
}
