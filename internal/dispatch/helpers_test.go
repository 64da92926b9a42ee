// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package dispatch

import (
	"io"
	"log/slog"
)

// testLogger silences engine logging during tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
