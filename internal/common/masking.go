package common

import (
	"log/slog"
	"regexp"
	"strings"
	"sync/atomic"
)

// Mask is the placeholder written in place of a sensitive value.
const Mask = "***MASKED***"

// SensitivePattern describes one kind of value that must not reach the logs.
type SensitivePattern struct {
	Name        string
	Regex       *regexp.Regexp // applied to free-form string values
	Replacement string
	Keys        []string // attribute keys masked outright (case-insensitive)
}

// DefaultSensitivePatterns covers outbound credentials and contact details
// submitted through the form.
var DefaultSensitivePatterns = []SensitivePattern{
	{
		Name:        "password",
		Regex:       regexp.MustCompile(`(?i)(password|passwd|pwd)["'\s]*[:=]["'\s]*([^"',}\]\s]+)`),
		Replacement: `${1}":"` + Mask + `"`,
		Keys:        []string{"password", "passwd", "pwd"},
	},
	{
		Name:        "token",
		Regex:       regexp.MustCompile(`(?i)(token|access[_-]?token)["'\s]*[:=]["'\s]*([^"',}\]\s]+)`),
		Replacement: `${1}":"` + Mask + `"`,
		Keys:        []string{"token", "access_token", "access-token"},
	},
	{
		Name:  "authorization",
		Regex: regexp.MustCompile(`(?i)(Bearer|Basic)\s+[A-Za-z0-9\-._~+/]+=*`),
		// keep the scheme so the log still says which kind of credential was sent
		Replacement: "${1} " + Mask,
		Keys:        []string{"authorization"},
	},
	{
		Name:        "secret",
		Regex:       regexp.MustCompile(`(?i)(secret|client[_-]?secret)["'\s]*[:=]["'\s]*([^"',}\]\s]+)`),
		Replacement: `${1}":"` + Mask + `"`,
		Keys:        []string{"secret", "client_secret", "jwt_secret"},
	},
	{
		Name:        "email",
		Regex:       regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		Replacement: Mask,
		Keys:        []string{"email"},
	},
}

// Masker handles masking of sensitive information in logs
type Masker struct {
	patterns []SensitivePattern
	enabled  atomic.Bool
}

// NewMasker creates a new masker with default patterns
func NewMasker() *Masker {
	return NewMaskerWithPatterns(DefaultSensitivePatterns)
}

// NewMaskerWithPatterns creates a new masker with custom patterns
func NewMaskerWithPatterns(patterns []SensitivePattern) *Masker {
	m := &Masker{patterns: patterns}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables masking
func (m *Masker) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether masking is enabled
func (m *Masker) IsEnabled() bool {
	return m.enabled.Load()
}

// MaskString masks sensitive information in a string
func (m *Masker) MaskString(input string) string {
	if !m.IsEnabled() {
		return input
	}
	result := input
	for _, p := range m.patterns {
		if p.Regex == nil {
			continue
		}
		result = p.Regex.ReplaceAllString(result, p.Replacement)
	}
	return result
}

// isSensitiveKey reports whether key names a value that is always masked.
func (m *Masker) isSensitiveKey(key string) bool {
	for _, p := range m.patterns {
		for _, k := range p.Keys {
			if strings.EqualFold(key, k) {
				return true
			}
		}
	}
	return false
}

// MaskValue masks sensitive information based on key-value context.
// Non-string values under non-sensitive keys are returned untouched.
func (m *Masker) MaskValue(key string, value any) any {
	if !m.IsEnabled() {
		return value
	}
	if m.isSensitiveKey(key) {
		return Mask
	}
	switch v := value.(type) {
	case string:
		return m.MaskString(v)
	case error:
		return m.MaskString(v.Error())
	default:
		return value
	}
}

// ReplaceAttr plugs the masker into slog.HandlerOptions.
func (m *Masker) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if !m.IsEnabled() || a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey {
		return a
	}
	if m.isSensitiveKey(a.Key) {
		return slog.String(a.Key, Mask)
	}
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, m.MaskString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok && err != nil {
			return slog.String(a.Key, m.MaskString(err.Error()))
		}
	}
	return a
}

var globalMasker = NewMasker()

// GetGlobalMasker returns the global masker instance
func GetGlobalMasker() *Masker {
	return globalMasker
}

// MaskSensitiveData masks sensitive data using the global masker
func MaskSensitiveData(input string) string {
	return globalMasker.MaskString(input)
}

// EnableMasking enables/disables global masking
func EnableMasking(enabled bool) {
	globalMasker.SetEnabled(enabled)
}
