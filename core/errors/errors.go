// Package errors provides the error taxonomy shared by the earmark graph
// engine and its format handlers.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrDuplicateID indicates an identifier is already bound in a document
	ErrDuplicateID = errors.New("duplicate id")
	// ErrWrongDocument indicates entities from two different documents were mixed
	ErrWrongDocument = errors.New("wrong document")
	// ErrNoChild indicates an addressed child or occurrence does not exist
	ErrNoChild = errors.New("no such child")
	// ErrRangeOperation indicates a misuse of a range-only operation
	ErrRangeOperation = errors.New("invalid range operation")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal indicates an internal consistency failure
	ErrInternal = errors.New("internal error")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// Kind classifies a GraphError.
type Kind int

const (
	// KindDuplicateID is raised when an id is already bound (or reserved).
	KindDuplicateID Kind = iota
	// KindWrongDocument is raised when an operation mixes documents.
	KindWrongDocument
	// KindNoChild is raised when an addressed child does not exist.
	KindNoChild
	// KindRangeOperation is reserved for range-only operation misuse.
	KindRangeOperation
	// KindInternal is raised when the graph is found inconsistent.
	KindInternal
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDuplicateID:
		return "duplicate-id"
	case KindWrongDocument:
		return "wrong-document"
	case KindNoChild:
		return "no-child"
	case KindRangeOperation:
		return "range-operation"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindDuplicateID:
		return ErrDuplicateID
	case KindWrongDocument:
		return ErrWrongDocument
	case KindNoChild:
		return ErrNoChild
	case KindRangeOperation:
		return ErrRangeOperation
	default:
		return ErrInternal
	}
}

// GraphError is a structural violation reported by a graph operation.
type GraphError struct {
	Kind    Kind   // Classification, mapped to a sentinel by Unwrap
	Op      string // Operation that failed (e.g., "insertBefore")
	ID      string // Identifier of the offending entity, if any
	Message string // Human-readable details
}

func (e *GraphError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.sentinel().Error()
	}
	switch {
	case e.Op != "" && e.ID != "":
		return fmt.Sprintf("[%s] %s: %s", e.Op, msg, e.ID)
	case e.Op != "":
		return fmt.Sprintf("[%s] %s", e.Op, msg)
	case e.ID != "":
		return fmt.Sprintf("%s: %s", msg, e.ID)
	default:
		return msg
	}
}

func (e *GraphError) Unwrap() error {
	return e.Kind.sentinel()
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "format", "document", "node")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "N-Triples", "YAML")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewDuplicateID creates a GraphError of kind KindDuplicateID.
func NewDuplicateID(op, id string) *GraphError {
	return &GraphError{Kind: KindDuplicateID, Op: op, ID: id, Message: "the id is already used in this document"}
}

// NewReservedID creates the error returned when the empty id is registered.
func NewReservedID(op string) *GraphError {
	return &GraphError{Kind: KindDuplicateID, Op: op, Message: "the empty id is reserved"}
}

// NewWrongDocument creates a GraphError of kind KindWrongDocument.
func NewWrongDocument(op, id string) *GraphError {
	return &GraphError{Kind: KindWrongDocument, Op: op, ID: id, Message: "the entity belongs to a different document"}
}

// NewNoChild creates a GraphError of kind KindNoChild.
func NewNoChild(op, id string) *GraphError {
	return &GraphError{Kind: KindNoChild, Op: op, ID: id, Message: "the node is not a child of the parent node"}
}

// NewInternal creates a GraphError of kind KindInternal.
func NewInternal(op, message string) *GraphError {
	return &GraphError{Kind: KindInternal, Op: op, Message: message}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// KindOf reports the kind of the first GraphError in err's chain.
func KindOf(err error) (Kind, bool) {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return 0, false
}
