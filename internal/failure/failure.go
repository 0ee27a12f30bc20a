// Package failure defines the error taxonomy shared by every resolution and
// launch stage. Each failure carries the stage that produced it, a kind that
// callers match on with errors.Is, the subject (usually the identifier the
// operator supplied) and an optional cause.
package failure

import (
	"errors"
	"fmt"
)

// Kind discriminates failures independently of their message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindEmptyResult
	KindParse
	KindPromptFailed
	KindAPI
	KindPluginNotFound
	KindUnsupportedLogDriver
	KindPluginFailed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindEmptyResult:
		return "EmptyResult"
	case KindParse:
		return "ParseError"
	case KindPromptFailed:
		return "PromptFailed"
	case KindAPI:
		return "ApiError"
	case KindPluginNotFound:
		return "PluginNotFound"
	case KindUnsupportedLogDriver:
		return "UnsupportedLogDriver"
	case KindPluginFailed:
		return "PluginFailed"
	default:
		return "Unknown"
	}
}

// Stage names the pipeline step a failure belongs to.
type Stage string

const (
	StageIdentifier Stage = "identifier"
	StageCluster    Stage = "cluster"
	StageTask       Stage = "task"
	StageContainer  Stage = "container"
	StageSession    Stage = "session"
	StageLogConfig  Stage = "log configuration"
	StageLogs       Stage = "log group"
)

func (s Stage) plural() string {
	return string(s) + "s"
}

// Sentinels for errors.Is. They match any stage.
var (
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrEmptyResult          = &Error{Kind: KindEmptyResult}
	ErrParse                = &Error{Kind: KindParse}
	ErrPromptFailed         = &Error{Kind: KindPromptFailed}
	ErrAPI                  = &Error{Kind: KindAPI}
	ErrPluginNotFound       = &Error{Kind: KindPluginNotFound}
	ErrUnsupportedLogDriver = &Error{Kind: KindUnsupportedLogDriver}
	ErrPluginFailed         = &Error{Kind: KindPluginFailed}
)

// Error is the single failure type produced by the pipeline.
type Error struct {
	Stage   Stage
	Kind    Kind
	Subject string // identifier, operation or driver the failure is about
	Detail  string // optional extra text appended to the message
	Err     error
}

func (e *Error) Error() string {
	msg := e.message()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	// The remediation text is the whole message for a missing plugin.
	if e.Err != nil && e.Kind != KindPluginNotFound {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) message() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s '%s' not found", e.Stage, e.Subject)
	case KindEmptyResult:
		return fmt.Sprintf("no %s found", e.Stage.plural())
	case KindParse:
		return fmt.Sprintf("unable to parse identifier '%s'", e.Subject)
	case KindPromptFailed:
		return fmt.Sprintf("%s selection failed", e.Stage)
	case KindAPI:
		return fmt.Sprintf("%s call failed", e.Subject)
	case KindPluginNotFound:
		return fmt.Sprintf(pluginNotFoundText, e.Subject)
	case KindUnsupportedLogDriver:
		return fmt.Sprintf("unsupported log driver '%s'", e.Subject)
	case KindPluginFailed:
		return fmt.Sprintf("'%s' exited with an error", e.Subject)
	default:
		return fmt.Sprintf("%s failed", e.Stage)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a target *Error by kind, and by stage when the target names one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Stage == "" || t.Stage == e.Stage
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

const pluginNotFoundText = `'%s' not found, install it using the instructions in the link below:

https://docs.aws.amazon.com/systems-manager/latest/userguide/session-manager-working-with-install-plugin.html`

func NotFound(stage Stage, subject string) *Error {
	return &Error{Stage: stage, Kind: KindNotFound, Subject: subject}
}

// WithDetail returns a copy of e with detail appended to its message.
func (e *Error) WithDetail(detail string) *Error {
	c := *e
	c.Detail = detail
	return &c
}

func EmptyResult(stage Stage) *Error {
	return &Error{Stage: stage, Kind: KindEmptyResult}
}

func Parse(subject, detail string) *Error {
	return &Error{Stage: StageIdentifier, Kind: KindParse, Subject: subject, Detail: detail}
}

func PromptFailed(stage Stage, err error) *Error {
	return &Error{Stage: stage, Kind: KindPromptFailed, Err: err}
}

// API wraps a control-plane failure. operation is the API call name.
func API(stage Stage, operation string, err error) *Error {
	return &Error{Stage: stage, Kind: KindAPI, Subject: operation, Err: err}
}

func PluginNotFound(plugin string, err error) *Error {
	return &Error{Stage: StageSession, Kind: KindPluginNotFound, Subject: plugin, Err: err}
}

func UnsupportedLogDriver(driver, container string) *Error {
	return &Error{
		Stage:   StageLogs,
		Kind:    KindUnsupportedLogDriver,
		Subject: driver,
		Detail:  fmt.Sprintf("container '%s' must use awslogs", container),
	}
}

func PluginFailed(plugin string, err error) *Error {
	return &Error{Stage: StageSession, Kind: KindPluginFailed, Subject: plugin, Err: err}
}
