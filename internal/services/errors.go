package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// ErrKind categorises a store failure without exposing SDK-specific codes.
// Connection failures are split into two kinds because remediation differs:
// a credential failure needs new keys, a network failure needs a reachable
// endpoint.
type ErrKind int

const (
	KindUnknown ErrKind = iota
	KindConnectionNetwork
	KindConnectionAuth
	KindListing
	KindDelete
	KindUpload
	KindDownload
)

func (k ErrKind) String() string {
	switch k {
	case KindConnectionNetwork:
		return "connection_network"
	case KindConnectionAuth:
		return "connection_auth"
	case KindListing:
		return "listing"
	case KindDelete:
		return "delete"
	case KindUpload:
		return "upload"
	case KindDownload:
		return "download"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by the session engine. Handlers
// inspect it via the predicates below instead of importing minio-go.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func wrapErr(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsAuthFailure reports whether err is a credential-class connection failure.
func IsAuthFailure(err error) bool {
	return KindOf(err) == KindConnectionAuth
}

// IsNetworkFailure reports whether err is a network-class connection failure.
func IsNetworkFailure(err error) bool {
	return KindOf(err) == KindConnectionNetwork
}

// IsListingFailure reports whether err came from a bucket or object listing,
// including a partial-pagination failure.
func IsListingFailure(err error) bool {
	return KindOf(err) == KindListing
}

// credentialCodes are the S3 error codes that indicate the keys themselves
// were rejected rather than the endpoint being unreachable.
var credentialCodes = map[string]bool{
	"AccessDenied":            true,
	"InvalidAccessKeyId":      true,
	"SignatureDoesNotMatch":   true,
	"CredentialsNotSupported": true,
}

// classifyConnectionErr maps a failed connection probe to one of the two
// connection kinds.
func classifyConnectionErr(err error) *Error {
	if resp := minio.ToErrorResponse(err); credentialCodes[resp.Code] {
		return wrapErr(KindConnectionAuth, "store rejected credentials", err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return wrapErr(KindConnectionNetwork, "connection probe timed out", err)
	}
	return wrapErr(KindConnectionNetwork, "store unreachable", err)
}
