// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package archiver

import (
	"errors"
	"fmt"
)

var (
	// ErrNoURL is returned when no stylesheet URL was given.
	ErrNoURL = errors.New("no URL specified")

	// ErrInvalidURL is returned when the stylesheet URL is not an
	// absolute HTTP(S) URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrUnreachable is returned when a request could not be performed
	// or its body could not be read.
	ErrUnreachable = errors.New("unreachable")

	// ErrStatus is matched by [StatusError].
	ErrStatus = errors.New("invalid response status")

	// ErrNotCSS is returned when the stylesheet response is not CSS.
	ErrNotCSS = errors.New("not valid CSS")

	// ErrEmptyBody is returned when the stylesheet response is empty.
	ErrEmptyBody = errors.New("empty stylesheet")

	// ErrNotFont is returned when a font response is not a woff2 font.
	ErrNotFont = errors.New("not woff2 font")

	// ErrOutput is returned when a resource can't be written.
	ErrOutput = errors.New("cannot write output")
)

// StatusError is returned when the stylesheet server responded with
// a non successful status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server responded with %d: %s", e.Status, e.Body)
}

// Is implements [errors.Is] for [ErrStatus].
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}
