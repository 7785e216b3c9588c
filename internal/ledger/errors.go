package ledger

import (
	"fmt"

	"github.com/budgetpouch/backend/internal/models"
)

var (
	ErrAllocationSumMismatch = fmt.Errorf("%w: the allocations must sum to the transaction amount", models.ErrValidation)

	ErrSameEnvelopeTransfer      = fmt.Errorf("%w: the source and destination envelopes must be different", models.ErrValidation)
	ErrTransferAmountNotPositive = fmt.Errorf("%w: the transfer amount must be larger than zero", models.ErrValidation)

	ErrUnallocatedEnvelopeImmutable = fmt.Errorf("%w: the unallocated envelope cannot be deleted", models.ErrValidation)
)
