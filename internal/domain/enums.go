package domain

// UserRole defines a user's role within the organization.
type UserRole string

const (
	RoleAdmin              UserRole = "admin"
	RoleHighManager        UserRole = "high_manager"
	RoleManager            UserRole = "manager"
	RoleAccountant         UserRole = "accountant"
	RoleEngineer           UserRole = "engineer"
	RoleDriver             UserRole = "driver"
	RoleConstructionWorker UserRole = "construction_worker"
)

// DefaultRole is assigned when an imported record carries no role.
const DefaultRole = RoleEngineer

// ValidUserRoles enumerates the allowed role values.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:              true,
	RoleHighManager:        true,
	RoleManager:            true,
	RoleAccountant:         true,
	RoleEngineer:           true,
	RoleDriver:             true,
	RoleConstructionWorker: true,
}

// RoleRank orders roles for permission checks. Higher outranks lower.
var RoleRank = map[UserRole]int{
	RoleAdmin:              4,
	RoleHighManager:        3,
	RoleManager:            2,
	RoleAccountant:         1,
	RoleEngineer:           0,
	RoleDriver:             0,
	RoleConstructionWorker: 0,
}

// SubsetStatus is the workflow status of a contract subset.
type SubsetStatus string

const (
	StatusStarting          SubsetStatus = "starting"
	StatusToDo              SubsetStatus = "to do"
	StatusInProgress        SubsetStatus = "in progress"
	StatusFinalSettlementP1 SubsetStatus = "final settlement of phase 1"
	StatusFinalSettlementP2 SubsetStatus = "final settlement of phase 2"
	StatusAuditP1           SubsetStatus = "audit phase 1"
	StatusAuditP2           SubsetStatus = "audit phase 2"
	StatusComplete          SubsetStatus = "complete"
	StatusFail              SubsetStatus = "fail"
	StatusClosing           SubsetStatus = "closing"
	StatusDone              SubsetStatus = "done"
)

// SubsetStatusChoices lists the allowed subset statuses in workflow order.
var SubsetStatusChoices = []SubsetStatus{
	StatusStarting,
	StatusToDo,
	StatusInProgress,
	StatusFinalSettlementP1,
	StatusFinalSettlementP2,
	StatusAuditP1,
	StatusAuditP2,
	StatusComplete,
	StatusFail,
	StatusClosing,
	StatusDone,
}

// CompletedStatuses are the statuses counted as finished work.
var CompletedStatuses = map[SubsetStatus]bool{
	StatusFinalSettlementP1: true,
	StatusFinalSettlementP2: true,
	StatusAuditP1:           true,
	StatusAuditP2:           true,
	StatusComplete:          true,
	StatusDone:              true,
	StatusClosing:           true,
}

// ValidSubsetStatus reports whether s is an allowed subset status.
func ValidSubsetStatus(s SubsetStatus) bool {
	for _, c := range SubsetStatusChoices {
		if s == c {
			return true
		}
	}
	return false
}

var statusColors = map[SubsetStatus]string{
	StatusStarting:          "#E0E0E0",
	StatusToDo:              "#FFEB3B",
	StatusInProgress:        "#2196F3",
	StatusFinalSettlementP1: "#4CAF50",
	StatusFinalSettlementP2: "#43A047",
	StatusAuditP1:           "#FF9800",
	StatusAuditP2:           "#FB8C00",
	StatusComplete:          "#2E7D32",
	StatusFail:              "#B71C1C",
	StatusClosing:           "#6A1B9A",
	StatusDone:              "#1B5E20",
}

// StatusColor returns the display color for a subset status.
func StatusColor(s SubsetStatus) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "#9E9E9E"
}

// ImputationSource identifies where an imputed value originated.
type ImputationSource string

const (
	SourcePreview   ImputationSource = "import_preview"
	SourceModel     ImputationSource = "ml"
	SourceHeuristic ImputationSource = "heuristic"
)
