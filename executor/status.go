package executor

// Status is the result code handed back to the console command table.
type Status int

const (
	StatusSuccess   Status = 0
	StatusUndefined Status = -1  // not found, or nothing to run
	StatusSoft      Status = -7  // generic failure
	StatusMalloc    Status = -12 // resource allocation failure, e.g. nesting too deep
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusUndefined:
		return "undefined"
	case StatusSoft:
		return "failure"
	case StatusMalloc:
		return "resource exhausted"
	default:
		return "unknown status"
	}
}

// OK reports whether s is StatusSuccess.
func (s Status) OK() bool {
	return s == StatusSuccess
}
