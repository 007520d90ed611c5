package errors

import (
	"errors"
)

// As is a wrapper around errors.As that works with our Error type
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return CodeInternal
}

// GetReason extracts the domain reason from an error, if any
func GetReason(err error) Reason {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Reason
	}
	return ""
}

// GetMeta extracts metadata from an error
func GetMeta(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Meta
	}

	return nil
}

// GetMessage extracts the user-friendly message from an error
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	return err.Error()
}

// Type checking helpers

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return GetCode(err) == CodeAlreadyExists
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	return GetCode(err) == CodeInternal
}

// IsFailedPrecondition checks if an error is a failed precondition error
func IsFailedPrecondition(err error) bool {
	return GetCode(err) == CodeFailedPrecondition
}

// IsCanceled checks if an error is a canceled error
func IsCanceled(err error) bool {
	return GetCode(err) == CodeCanceled
}

// Reason checking helpers

// IsRulesetNotFound checks for a missing ruleset
func IsRulesetNotFound(err error) bool {
	return GetReason(err) == ReasonRulesetNotFound
}

// IsSchemaMismatch checks for an unparseable facet payload
func IsSchemaMismatch(err error) bool {
	return GetReason(err) == ReasonSchemaMismatch
}

// IsNotEligible checks for a level-up on an ineligible character
func IsNotEligible(err error) bool {
	return GetReason(err) == ReasonNotEligible
}

// IsIncompleteLevelUp checks for a commit with missing choices
func IsIncompleteLevelUp(err error) bool {
	return GetReason(err) == ReasonIncompleteLevelUp
}

// IsDuplicateLevel checks for a repeated snapshot level
func IsDuplicateLevel(err error) bool {
	return GetReason(err) == ReasonDuplicateLevel
}

// IsPersistenceFailure checks for a storage failure
func IsPersistenceFailure(err error) bool {
	return GetReason(err) == ReasonPersistenceFailure
}

// IsInvalidTransition checks for an illegal state machine transition
func IsInvalidTransition(err error) bool {
	return GetReason(err) == ReasonInvalidTransition
}
