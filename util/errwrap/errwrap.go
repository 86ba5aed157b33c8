// Symlang
// Copyright (C) the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package errwrap contains some error helpers.
package errwrap

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Wrapf adds context onto an existing error. If the error to wrap is nil,
// then nil is returned unchanged. The wrapped error keeps its cause, so
// sentinel comparisons with errors.Is still work through the wrapping.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Append collects a second error onto an existing one. If either is nil,
// the other is returned unchanged, which makes this usable as a safe
// `reterr += err` accumulator in cleanup paths.
func Append(reterr, err error) error {
	if reterr == nil {
		return err
	}
	if err == nil {
		return reterr
	}
	return multierror.Append(reterr, err)
}

// String returns a string representation of the error, or an empty string
// if the error is nil.
func String(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
