package dtos

// VerboseStatus is a human-readable summary of an Account's lifecycle
// flags. It is always recomputed from the flags on read — never trusted
// from storage — so a status column that drifts from its flags can never
// desync client-facing behavior from the Profile engine's decisions.
type VerboseStatus string

const (
	VerboseStatusUnknown  VerboseStatus = "unknown"
	VerboseStatusActive   VerboseStatus = "active"
	VerboseStatusInactive VerboseStatus = "inactive"
	VerboseStatusPending  VerboseStatus = "pending"
	VerboseStatusArchived VerboseStatus = "archived"
	VerboseStatusDeleted  VerboseStatus = "deleted"
)

// ComputeVerboseStatus derives the human-facing status from the raw
// lifecycle flags. Deleted takes priority over archived, which takes
// priority over inactive, which takes priority over the pending-approval
// state; an account that is active, checked and approved is Active.
func ComputeVerboseStatus(isActive, isChecked, isArchived, isDeleted bool) VerboseStatus {
	switch {
	case isDeleted:
		return VerboseStatusDeleted
	case isArchived:
		return VerboseStatusArchived
	case !isActive:
		return VerboseStatusInactive
	case !isChecked:
		return VerboseStatusPending
	default:
		return VerboseStatusActive
	}
}
