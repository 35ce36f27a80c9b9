package extension

import "encoding/json"

const (
	extensionAPIVersion = "2020-01-01"
	logsAPIVersion      = "2020-08-15"
	logsSchemaVersion   = "2021-03-18"

	extensionNameHeader       = "Lambda-Extension-Name"
	extensionIdentifierHeader = "Lambda-Extension-Identifier"
	extensionErrorTypeHeader  = "Lambda-Extension-Function-Error-Type"

	// DefaultListenerPort is the port the Logs API delivers batches to.
	DefaultListenerPort = 9002
	// SandboxHostname resolves to the extension inside the Lambda sandbox.
	SandboxHostname = "sandbox.localdomain"
)

const (
	LogTypeFunction  = "function"
	LogTypePlatform  = "platform"
	LogTypeExtension = "extension"
)

type EventType string

const (
	Invoke   EventType = "INVOKE"
	Shutdown EventType = "SHUTDOWN"
)

type RegisterResponse struct {
	FunctionName    string `json:"functionName"`
	FunctionVersion string `json:"functionVersion"`
	Handler         string `json:"handler"`
}

type NextEventResponse struct {
	EventType          EventType `json:"eventType"`
	DeadlineMs         int64     `json:"deadlineMs"`
	RequestID          string    `json:"requestId"`
	InvokedFunctionArn string    `json:"invokedFunctionArn"`
	ShutdownReason     string    `json:"shutdownReason"`
}

type BufferingConfig struct {
	MaxItems  int `json:"maxItems"`
	MaxBytes  int `json:"maxBytes"`
	TimeoutMs int `json:"timeoutMs"`
}

type Destination struct {
	Protocol string `json:"protocol"`
	URI      string `json:"URI"`
}

type SubscribeRequest struct {
	SchemaVersion string          `json:"schemaVersion"`
	Types         []string        `json:"types"`
	Buffering     BufferingConfig `json:"buffering"`
	Destination   Destination     `json:"destination"`
}

// LogMessage is one element of a batch delivered by the Logs API.
type LogMessage struct {
	Time   string          `json:"time"`
	Type   string          `json:"type"`
	Record json.RawMessage `json:"record"`
}

type errorRequest struct {
	ErrorMessage string   `json:"errorMessage"`
	ErrorType    string   `json:"errorType"`
	StackTrace   []string `json:"stackTrace"`
}
