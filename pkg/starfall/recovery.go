package starfall

import "errors"

// RecoveryResult is the non-throwing outcome of a validation attempt.
// A failed attempt names the violated rule and a fix the player can act on.
type RecoveryResult struct {
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	SuggestedFix string `json:"suggested_fix,omitempty"`
}

// AttemptRecovery runs a validation operation and converts rule
// violations into a structured result instead of an error, so callers
// can surface actionable feedback without special-casing each rule.
// Precondition failures and unknown errors propagate unmodified.
func AttemptRecovery(op func() error) (*RecoveryResult, error) {
	err := op()
	if err == nil {
		return &RecoveryResult{Success: true}, nil
	}
	var rule RuleError
	if !errors.As(err, &rule) {
		return nil, err
	}
	res := &RecoveryResult{Success: false}
	switch e := rule.(type) {
	case *CapacityError:
		res.ErrorType = "capacity_violation"
		if e.Untransportable {
			res.SuggestedFix = "remove ships and structures from the cargo selection"
		} else {
			res.SuggestedFix = "reduce the cargo selection or add ships with capacity"
		}
	case *PickupError:
		res.ErrorType = "pickup_restriction"
		res.SuggestedFix = "pick up from the starting or active system instead of " + e.SystemID
	case *ConsistencyError:
		res.ErrorType = "movement_inconsistency"
		res.SuggestedFix = "rebuild the transport plan: " + e.Reason
	default:
		res.ErrorType = "rule_violation"
		res.SuggestedFix = rule.Error()
	}
	return res, nil
}
