package entity

// Status constants for Expense
const (
	StatusDraft      = "DRAFT"
	StatusPending    = "PENDING"
	StatusApproved   = "APPROVED"
	StatusRejected   = "REJECTED"
	StatusProcessing = "PROCESSING"
)

// Decision status constants for ApprovalEntry
const (
	EntryPending  = "PENDING"
	EntryApproved = "APPROVED"
	EntryRejected = "REJECTED"
)

// Approver resolution modes for a policy step
const (
	ApproverReportingManager = "REPORTING_MANAGER"
	ApproverFixedUserList    = "FIXED_USER_LIST"
	ApproverRoleMembers      = "ROLE_MEMBERS"
	ApproverAnyOfList        = "ANY_OF_LIST"
)

// Completion rule kinds
const (
	RuleSequential       = "SEQUENTIAL"
	RulePercentage       = "PERCENTAGE"
	RuleSpecificApprover = "SPECIFIC_APPROVER"
	RuleHybrid           = "HYBRID"
)

// Hybrid rule operators
const (
	OperatorAnd = "AND"
	OperatorOr  = "OR"
)

// User role constants
const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

// Expense category constants
const (
	CategoryTravel         = "TRAVEL"
	CategoryFood           = "FOOD"
	CategoryAccommodation  = "ACCOMMODATION"
	CategoryTransport      = "TRANSPORT"
	CategoryOfficeSupplies = "OFFICE_SUPPLIES"
	CategorySoftware       = "SOFTWARE"
	CategoryTraining       = "TRAINING"
	CategoryEntertainment  = "ENTERTAINMENT"
	CategoryOther          = "OTHER"
)

// Reimbursement status constants (acted on by the reimbursement flow, not this engine)
const (
	ReimbursementPending   = "PENDING"
	ReimbursementProcessed = "PROCESSED"
	ReimbursementPaid      = "PAID"
)

// ValidCategories lists the accepted expense categories
var ValidCategories = map[string]bool{
	CategoryTravel:         true,
	CategoryFood:           true,
	CategoryAccommodation:  true,
	CategoryTransport:      true,
	CategoryOfficeSupplies: true,
	CategorySoftware:       true,
	CategoryTraining:       true,
	CategoryEntertainment:  true,
	CategoryOther:          true,
}
