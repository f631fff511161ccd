package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Remote backend errors
	ErrRemoteUnavailable  = fmt.Errorf("backend unreachable")
	ErrSessionUnreachable = fmt.Errorf("session request rejected")
	ErrSchemaUnavailable  = fmt.Errorf("schema fetch failed")
	ErrSubjectNotFound    = fmt.Errorf("subject not found")

	// Local state errors
	ErrStateStore = fmt.Errorf("client state store failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrUnknownAction   = fmt.Errorf("unknown pipeline action")
	ErrUnknownSection  = fmt.Errorf("unknown section")
)
