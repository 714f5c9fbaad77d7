// Copyright 2026 The go-probe Authors
// This file is part of the go-probe library.
//
// The go-probe library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probe library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probe library. If not, see <http://www.gnu.org/licenses/>.

package agentapi

import (
	"errors"

	"github.com/probechain/agentledger/core"
)

// txMaxSize bounds the encoding of a submitted transaction.
const txMaxSize = 32 * 1024

// Error codes reported to RPC clients. They sit in the range JSON-RPC 2.0
// leaves to implementations.
const (
	ErrCodeDefault      = -32000
	ErrCodeNotFound     = -32001
	ErrCodeConflict     = -32002
	ErrCodePoolFull     = -32003
	errcodeInvalidInput = -32602
)

var errOversizedTx = errors.New("oversized transaction")

// apiError is a ledger error carrying its RPC error code.
type apiError struct {
	code int
	err  error
}

func (e *apiError) Error() string  { return e.err.Error() }
func (e *apiError) ErrorCode() int { return e.code }
func (e *apiError) Unwrap() error  { return e.err }

// wrapError attaches the RPC error code of err.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	return &apiError{code: codeOf(err), err: err}
}

// codeOf maps ledger errors onto RPC error codes.
func codeOf(err error) int {
	switch {
	case errors.Is(err, core.ErrAgentNotFound),
		errors.Is(err, core.ErrValidationNotFound),
		errors.Is(err, core.ErrConfigNotInitialized):
		return ErrCodeNotFound
	case errors.Is(err, core.ErrAlreadyKnown),
		errors.Is(err, core.ErrNonceConflict),
		errors.Is(err, core.ErrNonceTooLow):
		return ErrCodeConflict
	case errors.Is(err, core.ErrTxPoolOverflow):
		return ErrCodePoolFull
	}
	return ErrCodeDefault
}
