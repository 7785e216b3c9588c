package recurrence

import (
	"fmt"

	"github.com/budgetpouch/backend/internal/models"
)

var (
	ErrNotScheduled = fmt.Errorf("%w: only scheduled instances can be skipped", models.ErrPrecondition)
	ErrNotLinked    = fmt.Errorf("%w: the transaction is not linked to a recurring transaction", models.ErrPrecondition)
)
