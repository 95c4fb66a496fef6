package oidc

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/mock"
)

type logCall struct {
	level   string
	message string
	args    []any
}

type captureLogger struct {
	calls []logCall
}

func (l *captureLogger) record(level, message string, args ...any) {
	l.calls = append(l.calls, logCall{level: level, message: message, args: args})
}

func (l *captureLogger) Trace(message string, args ...any) { l.record("trace", message, args...) }
func (l *captureLogger) Debug(message string, args ...any) { l.record("debug", message, args...) }
func (l *captureLogger) Info(message string, args ...any)  { l.record("info", message, args...) }
func (l *captureLogger) Warn(message string, args ...any)  { l.record("warn", message, args...) }
func (l *captureLogger) Error(message string, args ...any) { l.record("error", message, args...) }
func (l *captureLogger) Fatal(message string, args ...any) { l.record("fatal", message, args...) }
func (l *captureLogger) WithContext(context.Context) Logger {
	return l
}

func (l *captureLogger) levels(level string) []logCall {
	var out []logCall
	for _, c := range l.calls {
		if c.level == level {
			out = append(out, c)
		}
	}
	return out
}

type mockTokenProvider struct {
	mock.Mock
}

func (m *mockTokenProvider) RequestAccessToken(ctx context.Context) (AccessToken, error) {
	args := m.Called(ctx)
	return args.Get(0).(AccessToken), args.Error(1)
}

// compactToken builds an unsigned-looking compact JWS around payload so the
// claim order in tests is exactly the order written.
func compactToken(t *testing.T, payload string) string {
	t.Helper()

	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	body := enc.EncodeToString([]byte(payload))
	sig := enc.EncodeToString([]byte("signature"))
	return header + "." + body + "." + sig
}

type pair struct {
	Type  string
	Value string
}

func pairs(claims []Claim) []pair {
	out := make([]pair, 0, len(claims))
	for _, c := range claims {
		out = append(out, pair{Type: c.Type, Value: c.Value})
	}
	return out
}
