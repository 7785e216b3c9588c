package models

import (
	"errors"
	"fmt"
)

// The taxonomy roots. Every specific error wraps exactly one of them so that
// callers can classify failures with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrResourceNotFound  = errors.New("there is no")
	ErrPrecondition      = errors.New("precondition failed")
	ErrIntegrityConflict = errors.New("the change conflicts with another resource")

	// ErrGeneral is returned for storage errors we cannot translate into
	// something more helpful for the user.
	ErrGeneral = errors.New("an error occurred on the server during your request")
)

var (
	ErrAccountNameNotUnique  = fmt.Errorf("%w: the account name must be unique for the budget", ErrIntegrityConflict)
	ErrEnvelopeNameNotUnique = fmt.Errorf("%w: the envelope name must be unique for the budget", ErrIntegrityConflict)

	// Only one envelope may auto-track a given credit card account.
	ErrLinkedAccountNotUnique = fmt.Errorf("%w: the account is already linked to another envelope", ErrIntegrityConflict)

	ErrUnallocatedEnvelopeExists = fmt.Errorf("%w: the budget already has an unallocated envelope", ErrIntegrityConflict)

	ErrOccurrenceNotUnique = fmt.Errorf("%w: the occurrence has already been generated for this recurring transaction", ErrIntegrityConflict)

	ErrRuleTypeInvalid        = fmt.Errorf("%w: the allocation rule type is unknown", ErrValidation)
	ErrRuleAmountNotPositive  = fmt.Errorf("%w: the allocation rule amount must be larger than zero", ErrValidation)
	ErrRuleCapPeriodRequired  = fmt.Errorf("%w: a period cap rule requires a period value and unit", ErrValidation)
	ErrRulePercentageTooLarge = fmt.Errorf("%w: a percentage rule cannot allocate more than 10000 basis points", ErrValidation)

	ErrFrequencyInvalid = fmt.Errorf("%w: the recurrence frequency must use a positive value and a known unit", ErrValidation)
	ErrEndBeforeStart   = fmt.Errorf("%w: the end date cannot be before the start date", ErrValidation)

	ErrStatusInvalid = fmt.Errorf("%w: the transaction status is unknown", ErrValidation)
	ErrTypeInvalid   = fmt.Errorf("%w: the transaction type is unknown", ErrValidation)
)
