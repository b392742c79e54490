package models

import (
	"errors"
	"fmt"
)

// FaultKind classifies an operation failure. Services return faults as
// typed results; handlers map kinds onto transport status codes. Faults
// are never used for normal control flow.
type FaultKind string

const (
	// FaultValidation: caller input violates a field constraint.
	// Detected before any write; never partially applied.
	FaultValidation FaultKind = "validation"
	// FaultDenied: authorization rejection. No side effect occurs.
	FaultDenied FaultKind = "denied"
	// FaultNotFound: referenced record does not exist.
	FaultNotFound FaultKind = "not_found"
	// FaultInsufficientStock: requested quantity exceeds available
	// stock at commit time.
	FaultInsufficientStock FaultKind = "insufficient_stock"
	// FaultIllegalTransition: requested status change is not a legal
	// edge from the current state.
	FaultIllegalTransition FaultKind = "illegal_transition"
	// FaultInconsistent: a multi-step operation failed after a side
	// effect; the caller must reconcile rather than blindly resubmit.
	FaultInconsistent FaultKind = "inconsistent"
	// FaultUnavailable: underlying store timeout or network failure;
	// safe to retry.
	FaultUnavailable FaultKind = "unavailable"
)

// Fault is the discriminated failure result shared by all services.
type Fault struct {
	Kind    FaultKind
	Message string

	// ProductID and Available carry insufficient-stock context.
	ProductID string
	Available int

	// From and To carry illegal-transition context.
	From OrderStatus
	To   OrderStatus

	// Step names the pipeline step that failed for inconsistent faults.
	Step string

	cause error
}

func (f *Fault) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.cause)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Fault) Unwrap() error {
	return f.cause
}

// NewValidation returns a validation fault.
func NewValidation(format string, args ...interface{}) *Fault {
	return &Fault{Kind: FaultValidation, Message: fmt.Sprintf(format, args...)}
}

// NewDenied returns an authorization fault.
func NewDenied(reason string) *Fault {
	return &Fault{Kind: FaultDenied, Message: reason}
}

// NewNotFound returns a not-found fault for the named record.
func NewNotFound(entity, id string) *Fault {
	return &Fault{Kind: FaultNotFound, Message: fmt.Sprintf("%s '%s' not found", entity, id)}
}

// NewInsufficientStock returns a stock fault carrying the quantity still
// available for the product.
func NewInsufficientStock(productID string, available int) *Fault {
	return &Fault{
		Kind:      FaultInsufficientStock,
		Message:   fmt.Sprintf("insufficient stock for product '%s': %d available", productID, available),
		ProductID: productID,
		Available: available,
	}
}

// NewIllegalTransition returns a state-machine fault for the rejected edge.
func NewIllegalTransition(from, to OrderStatus) *Fault {
	return &Fault{
		Kind:    FaultIllegalTransition,
		Message: fmt.Sprintf("illegal order transition %s -> %s", from, to),
		From:    from,
		To:      to,
	}
}

// NewInconsistent returns a fault for a multi-step operation that failed
// after a side effect. Step names where the pipeline stopped.
func NewInconsistent(step string, cause error) *Fault {
	return &Fault{
		Kind:    FaultInconsistent,
		Message: fmt.Sprintf("operation left partial state at step '%s'", step),
		Step:    step,
		cause:   cause,
	}
}

// NewUnavailable wraps a store-level failure that is safe to retry.
func NewUnavailable(cause error) *Fault {
	return &Fault{Kind: FaultUnavailable, Message: "store unavailable", cause: cause}
}

// FaultOf extracts the Fault from an error chain, or nil.
func FaultOf(err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return nil
}

// EnsureFault passes typed faults through unchanged and wraps any other
// error as unavailable, so store-level failures always surface inside
// the taxonomy.
func EnsureFault(err error) error {
	if err == nil {
		return nil
	}
	if FaultOf(err) != nil {
		return err
	}
	return NewUnavailable(err)
}

// IsFault reports whether err carries a fault of the given kind.
func IsFault(err error, kind FaultKind) bool {
	f := FaultOf(err)
	return f != nil && f.Kind == kind
}
