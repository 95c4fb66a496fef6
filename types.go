package oidc

import (
	"context"
	"fmt"

	"github.com/goliatone/go-logger/glog"
)

// Logger is the structured logger contract shared with go-logger.
type Logger = glog.Logger

// LoggerProvider hands out named loggers.
type LoggerProvider = glog.LoggerProvider

// ClaimsExtender enriches an identity after base token enrichment. Extenders
// run in registration order and may add or remove claims.
type ClaimsExtender interface {
	ExtendClaims(ctx context.Context, identity *ClaimsIdentity, account *Account) error
}

// ClaimsExtenderFunc adapts a function into a ClaimsExtender.
type ClaimsExtenderFunc func(ctx context.Context, identity *ClaimsIdentity, account *Account) error

// ExtendClaims satisfies the ClaimsExtender interface.
func (f ClaimsExtenderFunc) ExtendClaims(ctx context.Context, identity *ClaimsIdentity, account *Account) error {
	if f == nil {
		return nil
	}
	return f(ctx, identity, account)
}

// PostProcessor observes the finished principal once all claim mutation is
// done, typically for side effects such as metrics or audit.
type PostProcessor interface {
	ProcessPrincipal(ctx context.Context, principal *Principal) error
}

// PostProcessorFunc adapts a function into a PostProcessor.
type PostProcessorFunc func(ctx context.Context, principal *Principal) error

// ProcessPrincipal satisfies the PostProcessor interface.
func (f PostProcessorFunc) ProcessPrincipal(ctx context.Context, principal *Principal) error {
	if f == nil {
		return nil
	}
	return f(ctx, principal)
}

// ResolveLogger returns a provider and logger for name. A logger from the
// provider wins, then the explicit logger, then a stdout default that drops
// trace and debug output.
func ResolveLogger(name string, provider LoggerProvider, logger Logger) (LoggerProvider, Logger) {
	if provider != nil {
		if named := provider.GetLogger(name); named != nil {
			return provider, named
		}
	}
	if logger == nil {
		logger = defaultLogger()
	}
	return staticProvider{logger: logger}, logger
}

type staticProvider struct {
	logger Logger
}

func (p staticProvider) GetLogger(string) Logger {
	return p.logger
}

type defLogger struct{}

func defaultLogger() Logger {
	return defLogger{}
}

func (d defLogger) Trace(string, ...any)          {}
func (d defLogger) Debug(string, ...any)          {}
func (d defLogger) Info(msg string, args ...any)  { d.print("INF", msg, args...) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("WRN", msg, args...) }
func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args...) }
func (d defLogger) Fatal(msg string, args ...any) { d.print("FTL", msg, args...) }

func (d defLogger) WithContext(context.Context) Logger {
	return d
}

func (d defLogger) print(level, msg string, args ...any) {
	line := fmt.Sprintf("[%s] OIDC %s", level, msg)
	for i := 0; i+1 < len(args); i += 2 {
		line += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	if len(args)%2 == 1 {
		line += fmt.Sprintf(" %v", args[len(args)-1])
	}
	fmt.Println(line)
}
