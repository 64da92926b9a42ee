// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package dispatch

import "errors"

var (
	// ErrMalformedEnvelope marks a line that is not a JSON object or lacks
	// the required metadata keys. Terminal: logged and discarded, never
	// retried.
	ErrMalformedEnvelope = errors.New("dispatch: malformed envelope")

	// ErrUnknownKind marks a (class_id, variant_id) pair with no routed
	// handler. Terminal: logged and discarded, never retried.
	ErrUnknownKind = errors.New("dispatch: unknown envelope kind")
)
