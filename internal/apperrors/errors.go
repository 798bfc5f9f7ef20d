package apperrors

import "errors"

// ErrValidation indicates that input data failed validation checks.
// Nothing is applied to any store when this is returned.
var ErrValidation = errors.New("validation error")

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrImportFormat indicates a malformed import payload. Import is
// all-or-nothing; a batch containing any malformed entry is rejected
// without touching the stores.
var ErrImportFormat = errors.New("import payload format error")

// ErrStorageCorrupt indicates the local cache held unparsable data.
// Callers treat the affected key as empty state; this never crashes
// a session.
var ErrStorageCorrupt = errors.New("local storage corrupt")

// ErrUnparseable indicates the text-extraction assist could not turn
// free text into a well-formed entry. Non-fatal by contract.
var ErrUnparseable = errors.New("could not parse transaction text")

// ErrDuplicate indicates an attempt to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")
