package cgt

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientPoolQuantity is returned when a disposal needs more
	// shares from the Section 104 pool than it holds.
	ErrInsufficientPoolQuantity = errors.New("insufficient pool quantity")
	// ErrUnsupportedCorporateAction is returned for corporate actions that
	// cannot be expressed as a share ratio.
	ErrUnsupportedCorporateAction = errors.New("unsupported corporate action")
	// ErrOverlappingCorporateAction is returned when an unprocessed corporate
	// action falls inside an unresolved bed and breakfast window.
	ErrOverlappingCorporateAction = errors.New("corporate action overlaps a bed and breakfast window")
	// ErrInvalidTransaction is returned for malformed transactions.
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// SecurityError reports a failure of the computation for one security.
type SecurityError struct {
	Security    string
	Transaction string // offending transaction id
	Err         error
}

func (e *SecurityError) Error() string {
	if e.Transaction == "" {
		return fmt.Sprintf("security %s: %v", e.Security, e.Err)
	}
	return fmt.Sprintf("security %s, transaction %s: %v", e.Security, e.Transaction, e.Err)
}

func (e *SecurityError) Unwrap() error { return e.Err }

// securityError wraps err for the given security and transaction, keeping
// an existing SecurityError as is.
func securityError(security, tx string, err error) error {
	var se *SecurityError
	if errors.As(err, &se) {
		return err
	}
	return &SecurityError{Security: security, Transaction: tx, Err: err}
}
