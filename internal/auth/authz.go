package auth

import (
	"github.com/medicare/practice-api/pkg/types"
)

// Decision is the outcome of an authorization check
type Decision int

const (
	// Granted means the caller may act on the resource
	Granted Decision = iota
	// WrongRole means the caller's role may never perform this action
	WrongRole
	// Forbidden means the role fits but the caller does not own the resource
	Forbidden
)

// Authorize checks that the caller holds the required role and owns the
// resource. Every handler routes its access checks through here so the
// role and ownership rules cannot drift between endpoints.
func Authorize(identity types.Identity, requiredRole types.Role, resourceOwnerID int64) Decision {
	if identity.Role != requiredRole {
		return WrongRole
	}
	if identity.SubjectID != resourceOwnerID {
		return Forbidden
	}
	return Granted
}

// AuthorizeResource checks ownership of a resource that references both a
// patient and a doctor, against whichever side matches the caller's role
func AuthorizeResource(identity types.Identity, patientID, doctorID int64) Decision {
	switch identity.Role {
	case types.RolePatient:
		return Authorize(identity, types.RolePatient, patientID)
	case types.RoleDoctor:
		return Authorize(identity, types.RoleDoctor, doctorID)
	default:
		return WrongRole
	}
}
