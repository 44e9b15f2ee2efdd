// Package form submits the contact form and reports the server status to the user.
package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/loykin/frontc/internal/common"
	"github.com/tidwall/gjson"
)

// ErrorMessage is the single string shown when a submission fails.
const ErrorMessage = "Error while fetching"

// Field names read from the form at submission time.
const (
	FieldName  = "name"
	FieldEmail = "email"
)

var ErrInvalidResponse = errors.New("form: response body is not a JSON object")

// Payload is the JSON body posted to the form endpoint.
type Payload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StatusResponse is the part of the server answer the submitter consumes.
type StatusResponse struct {
	Status string `json:"status"`
}

// Poster sends an encoded payload and returns the raw response body.
type Poster interface {
	PostForm(ctx context.Context, body []byte) ([]byte, error)
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(ctx context.Context, body []byte) ([]byte, error)

func (f PosterFunc) PostForm(ctx context.Context, body []byte) ([]byte, error) {
	return f(ctx, body)
}

// Notifier shows a blocking, single-string message to the user.
type Notifier interface {
	Alert(message string)
}

// Source exposes the current value of a named form field.
type Source interface {
	Value(field string) string
}

// Encode serializes p as {"name":...,"email":...}. Values are not trimmed.
func Encode(p Payload) ([]byte, error) {
	return json.Marshal(p)
}

// FormatStatus renders the notification shown after a successful submission.
func FormatStatus(status string) string {
	return "Status: " + status
}

// Submit posts p and extracts the status field of the answer. A missing
// status yields an empty Status; any value is returned verbatim.
func Submit(ctx context.Context, p Payload, poster Poster) (StatusResponse, error) {
	body, err := Encode(p)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("form: encode payload: %w", err)
	}
	resp, err := poster.PostForm(ctx, body)
	if err != nil {
		return StatusResponse{}, err
	}
	if !gjson.ValidBytes(resp) {
		return StatusResponse{}, ErrInvalidResponse
	}
	parsed := gjson.ParseBytes(resp)
	if !parsed.IsObject() {
		return StatusResponse{}, ErrInvalidResponse
	}
	return StatusResponse{Status: parsed.Get("status").String()}, nil
}

// Submitter is the handler registered for form submission.
type Submitter struct {
	Poster   Poster
	Notifier Notifier
	Logger   *common.Logger
}

// NewSubmitter wires a Submitter with the default logger.
func NewSubmitter(p Poster, n Notifier) *Submitter {
	return &Submitter{Poster: p, Notifier: n, Logger: common.GetLogger()}
}

// HandleSubmit reads the fields from src, submits them and notifies the
// user exactly once. It never returns an error or panics: failures end in
// an ErrorMessage alert. The failure detail only reaches the debug log
// because the notifier takes a single string.
func (s *Submitter) HandleSubmit(ctx context.Context, src Source) (ok bool) {
	logger := s.Logger
	if logger == nil {
		logger = common.GetLogger()
	}
	logger = logger.WithFlow("form")

	notified := false
	alert := func(msg string) {
		notified = true
		s.Notifier.Alert(msg)
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("submission panicked", "panic", fmt.Sprint(r))
			if !notified {
				alert(ErrorMessage)
			}
			ok = false
		}
	}()

	p := Payload{Name: src.Value(FieldName), Email: src.Value(FieldEmail)}
	logger.Debug("submitting form", "name", p.Name, "email", p.Email)

	res, err := Submit(ctx, p, s.Poster)
	if err != nil {
		logger.Debug("submission failed", "error", err)
		alert(ErrorMessage)
		return false
	}
	logger.Info("form submitted", "status", res.Status)
	alert(FormatStatus(res.Status))
	return true
}

// MapSource is a Source backed by a map.
type MapSource map[string]string

func (m MapSource) Value(field string) string { return m[field] }

// FuncSource reads each field lazily, at the moment it is asked for.
type FuncSource func(field string) string

func (f FuncSource) Value(field string) string { return f(field) }

// WriterNotifier writes each alert as one line to W.
type WriterNotifier struct {
	mu sync.Mutex
	W  io.Writer
}

func (n *WriterNotifier) Alert(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintln(n.W, message)
}

// RecordingNotifier keeps every alert in memory.
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *RecordingNotifier) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded alerts.
func (r *RecordingNotifier) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
