package workflow

import "github.com/MadhavDodiya/expense-management/internal/domain/entity"

// Evaluate decides whether the approval chain satisfies the policy's
// completion rule. It is only consulted after an APPROVED decision; a
// REJECTED entry rejects the whole expense upstream and never reaches here.
//
// Counts run over all entries regardless of step.
func Evaluate(entries []entity.ApprovalEntry, rule entity.CompletionRule) bool {
	switch rule.Kind {
	case entity.RulePercentage:
		return percentageSatisfied(entries, rule.Percentage)

	case entity.RuleSpecificApprover:
		// BypassOthers is stored but does not alter evaluation.
		return specificSatisfied(entries, rule.SpecificApproverID)

	case entity.RuleHybrid:
		specific := specificSatisfied(entries, rule.SpecificApproverID)
		percentage := percentageSatisfied(entries, rule.Percentage)
		if rule.Operator == entity.OperatorAnd {
			return specific && percentage
		}
		return specific || percentage

	default:
		// SEQUENTIAL: approved once no entry remains PENDING.
		for i := range entries {
			if entries[i].Status == entity.EntryPending {
				return false
			}
		}
		return true
	}
}

// percentageSatisfied guards the zero-total case: an empty chain counts as
// satisfied to avoid dividing by zero.
func percentageSatisfied(entries []entity.ApprovalEntry, threshold int) bool {
	total := len(entries)
	if total == 0 {
		return true
	}

	approved := 0
	for i := range entries {
		if entries[i].Status == entity.EntryApproved {
			approved++
		}
	}

	return approved*100 >= threshold*total
}

func specificSatisfied(entries []entity.ApprovalEntry, approverID int64) bool {
	for i := range entries {
		if entries[i].ApproverID == approverID && entries[i].Status == entity.EntryApproved {
			return true
		}
	}
	return false
}
