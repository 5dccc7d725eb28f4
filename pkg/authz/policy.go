// Package authz implements the fixed role matrix gating every API operation.
//
// Decisions are pure: no storage access, no side effects. The default is
// deny — an unauthenticated actor, a missing role, or an unrecognized role
// name all fail closed.
package authz

import "github.com/sca-hospital/activos-backend/pkg/enums"

// Verb is the intent of an operation, independent of HTTP method.
type Verb string

const (
	VerbRead   Verb = "read"
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
)

// Resource is the class of data an operation targets.
type Resource string

const (
	ResourceMasterData     Resource = "master-data"
	ResourceAsset          Resource = "asset"
	ResourceMovementLedger Resource = "movement-ledger"
	ResourceAuditLog       Resource = "audit-log"
	ResourceUsers          Resource = "users"
)

// Actor is the resolved identity a decision is made for. Role is nil when
// the account has no role assigned.
type Actor struct {
	Authenticated bool
	UserID        int64
	Username      string
	Role          *enums.Role
}

// Allow evaluates the role matrix for the given verb and resource class.
func Allow(actor Actor, verb Verb, resource Resource) bool {
	if !actor.Authenticated || actor.Role == nil {
		return false
	}

	switch *actor.Role {
	case enums.RoleAdministrator:
		return true

	case enums.RoleTechnician:
		switch resource {
		case ResourceAsset:
			return verb == VerbRead || verb == VerbCreate || verb == VerbUpdate
		case ResourceMovementLedger:
			return verb == VerbRead
		default:
			// master data, users, audit log: no access
			return false
		}

	case enums.RoleDepartmentHead:
		switch resource {
		case ResourceAsset, ResourceMovementLedger, ResourceAuditLog:
			return verb == VerbRead
		default:
			return false
		}
	}

	// Unrecognized role names fail closed.
	return false
}

// AllowDelete is the independent delete gate layered after the matrix:
// deleting an asset requires the Administrator role no matter what the
// matrix said. For non-delete verbs it never blocks.
func AllowDelete(actor Actor, verb Verb, resource Resource) bool {
	if verb != VerbDelete || resource != ResourceAsset {
		return true
	}
	if !actor.Authenticated || actor.Role == nil {
		return false
	}
	return *actor.Role == enums.RoleAdministrator
}

// Authorize combines the role matrix and the delete gate; both must pass.
func Authorize(actor Actor, verb Verb, resource Resource) bool {
	return Allow(actor, verb, resource) && AllowDelete(actor, verb, resource)
}

// VerbForMethod maps an HTTP method onto a matrix verb.
func VerbForMethod(method string) Verb {
	switch method {
	case "POST":
		return VerbCreate
	case "PUT", "PATCH":
		return VerbUpdate
	case "DELETE":
		return VerbDelete
	default:
		return VerbRead
	}
}
