// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"errors"

	"codeberg.org/readeck/fontgrab/configs"
	"codeberg.org/readeck/fontgrab/pkg/archiver"
)

// Process exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitUsage       = 2
	exitStatus      = 3
	exitNotCSS      = 4
	exitEmptyBody   = 5
	exitUnreachable = 6
	exitNotFont     = 7
	exitOutput      = 8
)

var exitCodes = []struct {
	err  error
	code int
}{
	{errUsage, exitUsage},
	{configs.ErrConfig, exitUsage},
	{archiver.ErrNoURL, exitUsage},
	{archiver.ErrInvalidURL, exitUsage},
	{archiver.ErrStatus, exitStatus},
	{archiver.ErrNotCSS, exitNotCSS},
	{archiver.ErrEmptyBody, exitEmptyBody},
	{archiver.ErrNotFont, exitNotFont},
	{archiver.ErrOutput, exitOutput},
	{archiver.ErrUnreachable, exitUnreachable},
}

// exitCodeFor returns the exit code matching an error.
func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}

	for _, x := range exitCodes {
		if errors.Is(err, x.err) {
			return x.code
		}
	}

	return exitError
}
