package errors

import "fmt"

// Domain constructors. Each pairs a transport-neutral Code with a Reason so
// callers can branch with the Is* helpers below.

// RulesetNotFound reports that no ruleset is loaded for the id/version pair
func RulesetNotFound(rulesetID, version string) *Error {
	return NotFoundf("ruleset %s@%s is not loaded", rulesetID, version).
		WithReason(ReasonRulesetNotFound).
		WithMeta("ruleset_id", rulesetID).
		WithMeta("ruleset_version", version)
}

// SchemaMismatch reports a facet payload that does not parse against its schema
func SchemaMismatch(facet string, cause error) *Error {
	err := &Error{
		Code:    CodeInvalidArgument,
		Reason:  ReasonSchemaMismatch,
		Message: fmt.Sprintf("payload does not match the %s schema", facet),
		Cause:   cause,
	}
	return err.WithMeta("facet", facet)
}

// NotEligible reports a level-up attempt on a character that has not crossed the threshold
func NotEligible(characterID, reason string) *Error {
	return FailedPreconditionf("character %s is not eligible to level up: %s", characterID, reason).
		WithReason(ReasonNotEligible).
		WithMeta("character_id", characterID)
}

// IncompleteLevelUp reports a commit attempted with required facets still missing
func IncompleteLevelUp(characterID string, missing []string) *Error {
	return FailedPreconditionf("level up for %s is missing choices: %v", characterID, missing).
		WithReason(ReasonIncompleteLevelUp).
		WithMeta("character_id", characterID).
		WithMeta("missing", missing)
}

// DuplicateLevel reports an attempt to append a second snapshot for a level
func DuplicateLevel(characterID string, level int) *Error {
	return AlreadyExistsf("snapshot for level %d of %s already exists", level, characterID).
		WithReason(ReasonDuplicateLevel).
		WithMeta("character_id", characterID).
		WithMeta("level", level)
}

// PersistenceFailure wraps a storage error that must be reported to the caller
func PersistenceFailure(cause error, message string) *Error {
	return &Error{
		Code:    CodeUnavailable,
		Reason:  ReasonPersistenceFailure,
		Message: message,
		Cause:   cause,
	}
}

// PersistenceFailuref wraps a storage error with a formatted message
func PersistenceFailuref(cause error, format string, args ...interface{}) *Error {
	return PersistenceFailure(cause, fmt.Sprintf(format, args...))
}

// InvalidTransition reports an operation that is not legal in the current state
func InvalidTransition(format string, args ...interface{}) *Error {
	return FailedPreconditionf(format, args...).WithReason(ReasonInvalidTransition)
}
