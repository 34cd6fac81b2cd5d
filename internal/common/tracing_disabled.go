//go:build !trace

package common

//
// tracing_disabled.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import "context"

const TracingAvailable = false

func TraceLazyPrintf(ctx context.Context, format string, a ...any) {
}

func TraceErrorLazyPrintf(ctx context.Context, format string, a ...any) {
}
