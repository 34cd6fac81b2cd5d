//go:build trace

package common

//
// tracing.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"runtime/trace"
	"strings"

	xtrace "golang.org/x/net/trace"
)

const TracingAvailable = true

func TraceLazyPrintf(ctx context.Context, format string, a ...any) {
	if trace.IsEnabled() {
		if cat, _, ok := strings.Cut(format, ":"); ok {
			trace.Logf(ctx, cat, format, a...)
		} else {
			trace.Logf(ctx, "", format, a...)
		}
	}

	if tr, ok := xtrace.FromContext(ctx); ok && tr != nil {
		tr.LazyPrintf(format, a...)
	}
}

func TraceErrorLazyPrintf(ctx context.Context, format string, a ...any) {
	if trace.IsEnabled() {
		if cat, _, ok := strings.Cut(format, ":"); ok {
			trace.Logf(ctx, "error "+cat, format, a...)
		} else {
			trace.Logf(ctx, "error", format, a...)
		}
	}

	if tr, ok := xtrace.FromContext(ctx); ok && tr != nil {
		tr.LazyPrintf(format, a...)
		tr.SetError()
	}
}
