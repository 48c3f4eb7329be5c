package errx

import (
	"errors"
	"fmt"
)

// Kind classifies a failure into the small taxonomy the screens understand.
type Kind string

const (
	// KindConfiguration means credentials or required settings are missing. Fatal to any request.
	KindConfiguration Kind = "configuration_error"
	// KindAnalysis covers network, safety-block and parsing failures of an analysis call.
	KindAnalysis Kind = "analysis_failure"
	// KindInvalidResponseFormat is an analysis failure where no JSON object could be located.
	KindInvalidResponseFormat Kind = "invalid_response_format"
	// KindCropMismatch is a semantic negative result: the photo is not the selected crop.
	KindCropMismatch Kind = "crop_mismatch"
	// KindTTS is isolated to the speech controls.
	KindTTS Kind = "tts_failure"
	// KindShare is isolated to the share affordance.
	KindShare Kind = "share_failure"
	// KindStorage is logged and never blocks the user flow.
	KindStorage Kind = "storage_failure"
	// KindChat means a chat session could not be opened.
	KindChat Kind = "chat_failure"
)

// Parent returns the broader kind this kind belongs to, or the kind itself.
func (k Kind) Parent() Kind {
	if k == KindInvalidResponseFormat {
		return KindAnalysis
	}
	return k
}

// Is reports whether k is target or a subtype of target.
func (k Kind) Is(target Kind) bool {
	return k == target || k.Parent() == target
}

// Default messages, used when a caller does not provide one. Never shown raw to a
// farmer; screens translate the Kind instead.
var defaultMessages = map[Kind]string{
	KindConfiguration:         "service is not configured",
	KindAnalysis:              "analysis failed",
	KindInvalidResponseFormat: "model response had no readable diagnosis",
	KindCropMismatch:          "image does not show the selected crop",
	KindTTS:                   "speech synthesis failed",
	KindShare:                 "share failed",
	KindStorage:               "history storage failed",
	KindChat:                  "chat unavailable",
}

// Error wraps an underlying error with a Kind and a safe message.
type Error struct {
	Kind    Kind
	Err     error
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches kind sentinels (an *Error with only Kind set) by kind, honoring subtypes.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Err != nil {
		return false
	}
	return e.Kind.Is(t.Kind)
}

// New creates a new Error. An empty message is replaced by the kind's default.
func New(kind Kind, err error, message string) *Error {
	if message == "" {
		message = defaultMessages[kind]
	}
	return &Error{Kind: kind, Err: err, Message: message}
}

// Newf creates an Error of the given kind from a formatted cause.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Errorf(format, args...), "")
}

// Wrap attaches kind to err unless err already carries a kind. Nil stays nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return New(kind, err, "")
}

// Sentinels usable with errors.Is.
var (
	ErrConfiguration         = &Error{Kind: KindConfiguration}
	ErrAnalysis              = &Error{Kind: KindAnalysis}
	ErrInvalidResponseFormat = &Error{Kind: KindInvalidResponseFormat}
	ErrCropMismatch          = &Error{Kind: KindCropMismatch}
	ErrTTS                   = &Error{Kind: KindTTS}
	ErrShare                 = &Error{Kind: KindShare}
	ErrStorage               = &Error{Kind: KindStorage}
	ErrChat                  = &Error{Kind: KindChat}
)

// KindOf classifies err. Unclassified errors count as analysis failures; nil has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindAnalysis
}

// IsKind reports whether err is of kind (or a subtype of it).
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err).Is(kind)
}
