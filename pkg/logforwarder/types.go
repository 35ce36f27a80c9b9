package logforwarder

type Category int

const (
	CategoryOther Category = iota
	CategoryFunction
)

func (c Category) String() string {
	switch c {
	case CategoryFunction:
		return "function"
	default:
		return "other"
	}
}

// LogEntry is one log record delivered by the host.
// Type keeps the raw log type for entries outside the function category.
// Err is set when the host delivered a record that could not be read as a payload.
type LogEntry struct {
	Category Category
	Type     string
	Time     string
	Payload  []byte
	Err      error
}

type Batch []LogEntry

func FunctionEntry(payload string) LogEntry {
	return LogEntry{
		Category: CategoryFunction,
		Type:     "function",
		Payload:  []byte(payload),
	}
}
