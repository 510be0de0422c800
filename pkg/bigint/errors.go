// Copyright (c) 2026 PureCrypt Contributors
//
// This file is part of go-purecrypt.
//
// go-purecrypt is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@purecrypt.io for commercial licensing options.

package bigint

import "errors"

var (
	// ErrDivideByZero is returned when the divisor or modulus is zero
	ErrDivideByZero = errors.New("bigint: division by zero")

	// ErrNoInverse is returned when no modular inverse exists
	ErrNoInverse = errors.New("bigint: modular inverse does not exist")

	// ErrInvalidBase is returned for string conversion bases other than 2, 10, 16 and 256
	ErrInvalidBase = errors.New("bigint: unsupported base")

	// ErrInvalidRange is returned when min exceeds max for a random range request
	ErrInvalidRange = errors.New("bigint: invalid range, min exceeds max")

	// ErrNoPrime is returned when no prime exists within the requested range
	ErrNoPrime = errors.New("bigint: no prime found in range")

	// ErrTimeout is returned when prime generation exceeds its deadline.
	// This is a recoverable condition, not a fatal one.
	ErrTimeout = errors.New("bigint: operation timed out")

	// ErrNegativeExponent is returned when ModExp is called with a negative
	// exponent whose base has no inverse modulo m
	ErrNegativeExponent = errors.New("bigint: negative exponent without modular inverse")
)
