package utils

import (
	"context"
	"log"
	"strings"
	"unicode"

	"stock-news-briefer/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers from panics so a single bad
// article can never take the process down.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v", r)
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still live, logging when it
// is not.
func ShouldContinue(ctx context.Context, l *logger.Logger) bool {
	select {
	case <-ctx.Done():
		l.Info("context canceled, stopping work", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}

// ContainsString reports whether target occurs in list.
func ContainsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}

// CleanToValidUTF8 drops invalid UTF-8 sequences from s.
func CleanToValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}

// SafeText collapses runs of whitespace to single spaces and strips invalid
// UTF-8, yielding text safe to embed in prompts and JSON payloads.
func SafeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return CleanToValidUTF8(b.String())
}
