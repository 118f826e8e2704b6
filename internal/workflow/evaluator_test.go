package workflow

import (
	"testing"

	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
)

func entryList(statuses ...string) []entity.ApprovalEntry {
	entries := make([]entity.ApprovalEntry, len(statuses))
	for i, status := range statuses {
		entries[i] = entity.ApprovalEntry{ApproverID: int64(i + 1), Status: status, StepNumber: i}
	}
	return entries
}

func TestEvaluate_Sequential(t *testing.T) {
	rule := entity.CompletionRule{Kind: entity.RuleSequential}

	tests := []struct {
		name     string
		entries  []entity.ApprovalEntry
		expected bool
	}{
		{"all approved", entryList(entity.EntryApproved, entity.EntryApproved, entity.EntryApproved), true},
		{"one pending", entryList(entity.EntryApproved, entity.EntryPending, entity.EntryApproved), false},
		{"all pending", entryList(entity.EntryPending, entity.EntryPending), false},
		{"empty chain", nil, true},
		{"single approved", entryList(entity.EntryApproved), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.entries, rule); got != tt.expected {
				t.Errorf("Evaluate() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEvaluate_Percentage(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		entries   []entity.ApprovalEntry
		expected  bool
	}{
		{"2 of 4 at 50", 50, entryList(entity.EntryApproved, entity.EntryApproved, entity.EntryPending, entity.EntryPending), true},
		{"1 of 4 at 50", 50, entryList(entity.EntryApproved, entity.EntryPending, entity.EntryPending, entity.EntryPending), false},
		{"3 of 4 at 75", 75, entryList(entity.EntryApproved, entity.EntryApproved, entity.EntryApproved, entity.EntryPending), true},
		{"2 of 4 at 75", 75, entryList(entity.EntryApproved, entity.EntryApproved, entity.EntryPending, entity.EntryPending), false},
		{"1 of 3 at 33", 33, entryList(entity.EntryApproved, entity.EntryPending, entity.EntryPending), true},
		{"all pending at 1", 1, entryList(entity.EntryPending, entity.EntryPending), false},
		{"zero entries treated as satisfied", 100, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := entity.CompletionRule{Kind: entity.RulePercentage, Percentage: tt.threshold}
			if got := Evaluate(tt.entries, rule); got != tt.expected {
				t.Errorf("Evaluate() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEvaluate_SpecificApprover(t *testing.T) {
	rule := entity.CompletionRule{Kind: entity.RuleSpecificApprover, SpecificApproverID: 2}

	entries := entryList(entity.EntryPending, entity.EntryPending, entity.EntryPending)
	if Evaluate(entries, rule) {
		t.Error("Evaluate() = true before the designated approver decided")
	}

	// The designated approver settles it even with two pending entries left.
	entries[1].Status = entity.EntryApproved
	if !Evaluate(entries, rule) {
		t.Error("Evaluate() = false after the designated approver approved")
	}

	// Other approvals never satisfy the rule on their own.
	other := entryList(entity.EntryApproved, entity.EntryPending, entity.EntryApproved)
	if Evaluate(other, rule) {
		t.Error("Evaluate() = true without the designated approver's approval")
	}
}

func TestEvaluate_SpecificApprover_BypassOthersIsInert(t *testing.T) {
	withBypass := entity.CompletionRule{Kind: entity.RuleSpecificApprover, SpecificApproverID: 1, BypassOthers: true}
	without := entity.CompletionRule{Kind: entity.RuleSpecificApprover, SpecificApproverID: 1}

	entries := entryList(entity.EntryApproved, entity.EntryPending)
	if Evaluate(entries, withBypass) != Evaluate(entries, without) {
		t.Error("BypassOthers changed evaluation; it must be informational only")
	}
}

func TestEvaluate_Hybrid(t *testing.T) {
	tests := []struct {
		name     string
		operator string
		entries  []entity.ApprovalEntry
		expected bool
	}{
		{"OR, 1 of 4 and specific undecided", entity.OperatorOr,
			entryList(entity.EntryApproved, entity.EntryPending, entity.EntryPending, entity.EntryPending), false},
		{"OR, specific approved and no others", entity.OperatorOr,
			[]entity.ApprovalEntry{
				{ApproverID: 9, Status: entity.EntryApproved},
				{ApproverID: 2, Status: entity.EntryPending},
				{ApproverID: 3, Status: entity.EntryPending},
				{ApproverID: 4, Status: entity.EntryPending},
			}, true},
		{"AND, percentage met but specific undecided", entity.OperatorAnd,
			entryList(entity.EntryApproved, entity.EntryApproved, entity.EntryPending, entity.EntryPending), false},
		{"AND, both met", entity.OperatorAnd,
			[]entity.ApprovalEntry{
				{ApproverID: 9, Status: entity.EntryApproved},
				{ApproverID: 2, Status: entity.EntryApproved},
				{ApproverID: 3, Status: entity.EntryPending},
				{ApproverID: 4, Status: entity.EntryPending},
			}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := entity.CompletionRule{
				Kind:               entity.RuleHybrid,
				Operator:           tt.operator,
				Percentage:         50,
				SpecificApproverID: 9,
			}
			if got := Evaluate(tt.entries, rule); got != tt.expected {
				t.Errorf("Evaluate() = %v, want %v", got, tt.expected)
			}
		})
	}
}
