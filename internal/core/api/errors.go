package api

import (
	"errors"
	"net/http"

	"github.com/haldane/riskgate/internal/types"
)

// Error mapping convention: validation sentinels map to 400, missing
// resources to 404, an unconfigured generator to 503, generator transport
// failures to 502 at the call site, everything else to 500.

var validationErrs = []error{
	types.ErrMissingRuleName,
	types.ErrEmptyConditions,
	types.ErrEmptyThenActions,
	types.ErrGroupTooDeep,
	types.ErrTooManyConditions,
	types.ErrTooManyInValues,
	types.ErrFieldPathTooDeep,
	types.ErrTooManyActions,
	types.ErrAmbiguousNode,
	types.ErrUnknownOperator,
	types.ErrUnknownGroupOperator,
	types.ErrUnknownActionType,
	types.ErrMissingConditionField,
	types.ErrMissingConditionValue,
	types.ErrInvalidInValue,
	types.ErrMessageTooLong,
	types.ErrInvalidBetweenValue,
	types.ErrNilRuleLogic,
	types.ErrContextTooLarge,
	types.ErrMalformedContext,
	types.ErrMissingSourceText,
	types.ErrSourceTextTooLong,
	types.ErrInvalidRuleStatus,
}

// httpStatus resolves an error from the rules, draft, or store layers to a
// response status.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrRuleNotFound), errors.Is(err, types.ErrRevisionNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrGeneratorUnavailable):
		return http.StatusServiceUnavailable
	}
	for _, sentinel := range validationErrs {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}
