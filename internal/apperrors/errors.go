package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrNoKey indicates that no decryption capability was supplied, so an
// encrypted batch cannot be processed at all.
var ErrNoKey = errors.New("no decryption key available")

// ErrBatchDecryption indicates that decryption failed for the batch as a
// whole (every amount field failed), as opposed to isolated field failures.
var ErrBatchDecryption = errors.New("batch decryption failed")

// ErrSuperseded indicates an in-flight load was overtaken by a newer request
// and its result was discarded.
var ErrSuperseded = errors.New("request superseded by a newer one")
