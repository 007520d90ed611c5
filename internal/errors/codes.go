package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeAborted            Code = "ABORTED"
	CodeUnimplemented      Code = "UNIMPLEMENTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Reason narrows a Code to a domain failure the caller can branch on.
type Reason string

// Domain failure reasons
const (
	ReasonRulesetNotFound    Reason = "RULESET_NOT_FOUND"
	ReasonSchemaMismatch     Reason = "SCHEMA_MISMATCH"
	ReasonNotEligible        Reason = "NOT_ELIGIBLE"
	ReasonIncompleteLevelUp  Reason = "INCOMPLETE_LEVEL_UP"
	ReasonDuplicateLevel     Reason = "DUPLICATE_LEVEL"
	ReasonPersistenceFailure Reason = "PERSISTENCE_FAILURE"
	ReasonInvalidTransition  Reason = "INVALID_TRANSITION"
)

// String returns the string representation of the reason
func (r Reason) String() string {
	return string(r)
}
