package dtos

import (
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
)

// Permission is a total order over access levels: Read < Write. Filters
// compare licensed resources by rank rather than equality so a Write grant
// also satisfies a read check.
type Permission int

const (
	PermissionRead Permission = iota
	PermissionWrite
)

func (p Permission) Rank() int { return int(p) }

func (p Permission) String() string {
	switch p {
	case PermissionRead:
		return "read"
	case PermissionWrite:
		return "write"
	default:
		return "unknown"
	}
}

// GuestRole is a named permission bundle that Accounts are guested into. A
// role's children form a DAG: a role may delegate a narrower sub-role, but
// the delegation graph must never cycle back on itself.
type GuestRole struct {
	ID          uuid.UUID
	Name        string
	Description string
	Permission  Permission
	Children    []uuid.UUID
}

// DetectRoleCycle reports whether inserting `candidateChild` as a child of
// `id` would create a cycle in the role DAG described by `roles`. It walks
// the candidate's existing children looking for a path back to `id`.
func DetectRoleCycle(roles map[uuid.UUID]GuestRole, id uuid.UUID, candidateChild uuid.UUID) bool {
	if id == candidateChild {
		return true
	}

	visiting := map[uuid.UUID]bool{}
	var walk func(uuid.UUID) bool
	walk = func(current uuid.UUID) bool {
		if current == id {
			return true
		}
		if visiting[current] {
			return false
		}
		visiting[current] = true

		role, ok := roles[current]
		if !ok {
			return false
		}
		for _, child := range role.Children {
			if walk(child) {
				return true
			}
		}
		return false
	}

	return walk(candidateChild)
}

// InsertChild validates the DAG invariant and appends childID to the
// role's children, returning a new GuestRole value.
func (g GuestRole) InsertChild(roles map[uuid.UUID]GuestRole, childID uuid.UUID) (GuestRole, *mycerr.Error) {
	if DetectRoleCycle(roles, g.ID, childID) {
		return GuestRole{}, mycerr.InvalidArgumentErr("role delegation would create a cycle").
			WithCode(mycerr.MYC00018)
	}

	children := make([]uuid.UUID, len(g.Children), len(g.Children)+1)
	copy(children, g.Children)
	children = append(children, childID)
	g.Children = children
	return g, nil
}
