package authz

import (
	"testing"

	"github.com/sca-hospital/activos-backend/pkg/enums"
)

func actorWithRole(role enums.Role) Actor {
	return Actor{Authenticated: true, UserID: 1, Username: "test", Role: &role}
}

var allVerbs = []Verb{VerbRead, VerbCreate, VerbUpdate, VerbDelete}

var allResources = []Resource{
	ResourceMasterData,
	ResourceAsset,
	ResourceMovementLedger,
	ResourceAuditLog,
	ResourceUsers,
}

func TestAuthorize_Unauthenticated_DeniesEverything(t *testing.T) {
	actor := Actor{}
	for _, verb := range allVerbs {
		for _, resource := range allResources {
			if Authorize(actor, verb, resource) {
				t.Fatalf("unauthenticated actor allowed %s on %s", verb, resource)
			}
		}
	}
}

func TestAuthorize_NoRole_DeniesEverything(t *testing.T) {
	actor := Actor{Authenticated: true, UserID: 9, Username: "norole"}
	for _, verb := range allVerbs {
		for _, resource := range allResources {
			if Authorize(actor, verb, resource) {
				t.Fatalf("role-less actor allowed %s on %s", verb, resource)
			}
		}
	}
}

func TestAuthorize_UnknownRole_DeniesEverything(t *testing.T) {
	actor := actorWithRole(enums.Role("Intern"))
	for _, verb := range allVerbs {
		for _, resource := range allResources {
			if Authorize(actor, verb, resource) {
				t.Fatalf("unknown role allowed %s on %s", verb, resource)
			}
		}
	}
}

func TestAuthorize_Administrator_AllowsEverything(t *testing.T) {
	actor := actorWithRole(enums.RoleAdministrator)
	for _, verb := range allVerbs {
		for _, resource := range allResources {
			if !Authorize(actor, verb, resource) {
				t.Fatalf("administrator denied %s on %s", verb, resource)
			}
		}
	}
}

func TestAuthorize_RoleMatrix_Exhaustive(t *testing.T) {
	type decision struct {
		verb     Verb
		resource Resource
	}

	allowed := map[enums.Role]map[decision]bool{
		enums.RoleTechnician: {
			{VerbRead, ResourceAsset}:          true,
			{VerbCreate, ResourceAsset}:        true,
			{VerbUpdate, ResourceAsset}:        true,
			{VerbRead, ResourceMovementLedger}: true,
		},
		enums.RoleDepartmentHead: {
			{VerbRead, ResourceAsset}:          true,
			{VerbRead, ResourceMovementLedger}: true,
			{VerbRead, ResourceAuditLog}:       true,
		},
	}

	for role, table := range allowed {
		actor := actorWithRole(role)
		for _, verb := range allVerbs {
			for _, resource := range allResources {
				want := table[decision{verb, resource}]
				got := Authorize(actor, verb, resource)
				if got != want {
					t.Errorf("%s: %s on %s = %v, want %v", role, verb, resource, got, want)
				}
			}
		}
	}
}

func TestAllowDelete_GateIsIndependent(t *testing.T) {
	tech := actorWithRole(enums.RoleTechnician)
	head := actorWithRole(enums.RoleDepartmentHead)
	admin := actorWithRole(enums.RoleAdministrator)

	if AllowDelete(tech, VerbDelete, ResourceAsset) {
		t.Fatal("technician must not pass the asset delete gate")
	}
	if AllowDelete(head, VerbDelete, ResourceAsset) {
		t.Fatal("department head must not pass the asset delete gate")
	}
	if !AllowDelete(admin, VerbDelete, ResourceAsset) {
		t.Fatal("administrator must pass the asset delete gate")
	}

	// the gate never blocks non-delete verbs, even for role-less actors
	if !AllowDelete(Actor{}, VerbRead, ResourceAsset) {
		t.Fatal("gate should not apply to reads")
	}
}

func TestVerbForMethod(t *testing.T) {
	cases := map[string]Verb{
		"GET":    VerbRead,
		"HEAD":   VerbRead,
		"POST":   VerbCreate,
		"PUT":    VerbUpdate,
		"PATCH":  VerbUpdate,
		"DELETE": VerbDelete,
	}
	for method, want := range cases {
		if got := VerbForMethod(method); got != want {
			t.Errorf("VerbForMethod(%s) = %s, want %s", method, got, want)
		}
	}
}
