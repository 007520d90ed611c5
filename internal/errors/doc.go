// Package errors provides the structured error type used across charforge.
//
// Every error carries a transport-neutral Code and, for domain failures, a
// Reason that narrows the code to something a caller can act on:
//
//	RULESET_NOT_FOUND    (NOT_FOUND)           unknown ruleset id/version
//	SCHEMA_MISMATCH      (INVALID_ARGUMENT)    facet payload failed to parse
//	NOT_ELIGIBLE         (FAILED_PRECONDITION) level up before the threshold
//	INCOMPLETE_LEVEL_UP  (FAILED_PRECONDITION) commit with missing choices
//	DUPLICATE_LEVEL      (ALREADY_EXISTS)      second snapshot for a level
//	PERSISTENCE_FAILURE  (UNAVAILABLE)         the draft store failed
//	INVALID_TRANSITION   (FAILED_PRECONDITION) operation illegal in this state
//
// Rule violations are not errors. A step that fails its rules comes back as a
// ValidationResult; only malformed input and infrastructure failures use this
// package.
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFoundf("draft %s not found", draftID)
//	err := errors.DuplicateLevel(characterID, 5)
//
// Adding metadata:
//
//	err := errors.NotFound("draft not found").
//	    WithMeta("draft_id", draftID)
//
// Wrapping errors keeps the code and reason of the cause:
//
//	if err := store.Save(ctx, input); err != nil {
//	    return nil, errors.Wrap(err, "failed to save draft")
//	}
//
// # Error Checking
//
//	if errors.IsNotFound(err) {
//	    // Handle not found case
//	}
//	if errors.IsDuplicateLevel(err) {
//	    // Snapshot already written
//	}
//
// # Validation
//
// ValidationBuilder collects field level problems in config and input
// structs and returns a single InvalidArgument error:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("draft_id", input.DraftID, vb)
//	if err := vb.Build(); err != nil {
//	    return nil, err
//	}
package errors
