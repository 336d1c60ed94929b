package load

import (
	"fmt"

	"loadflow/internal/pkg/errs"
)

// Role identifies the kind of actor requesting a transition. Roles form a
// small fixed enum so allowed-actor checks are a bitset test rather than
// string comparison.
type Role uint8

const (
	// RoleUnknown is the zero value and never permitted on a transition.
	RoleUnknown Role = iota

	// RoleShipper owns the load and drives posting, awarding and payment.
	RoleShipper

	// RoleCatalyst is the carrier organization bidding on and hauling loads.
	RoleCatalyst

	// RoleDriver is the assigned driver executing pickup, transit and delivery.
	RoleDriver

	// RoleEscort is a convoy escort participant (lead or rear vehicle).
	RoleEscort

	// RoleAdmin is the privileged operations role with wide cancel/hold powers.
	RoleAdmin

	// RoleSystem is the scheduler/automation actor for timeout transitions.
	RoleSystem

	roleCount
)

func roleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "UNKNOWN",
		RoleShipper:  "SHIPPER",
		RoleCatalyst: "CATALYST",
		RoleDriver:   "DRIVER",
		RoleEscort:   "ESCORT",
		RoleAdmin:    "ADMIN",
		RoleSystem:   "SYSTEM",
	}
}

// String returns the wire name of the role, "UNKNOWN" for invalid values.
func (r Role) String() string {
	if s, ok := roleStrings()[r]; ok {
		return s
	}
	return "UNKNOWN"
}

// Validate rejects RoleUnknown and out-of-range values.
func (r Role) Validate() error {
	if r == RoleUnknown || r >= roleCount {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// RoleFromString parses a wire-format role name.
func RoleFromString(s string) (Role, error) {
	for r, name := range roleStrings() {
		if r != RoleUnknown && name == s {
			return r, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// RoleSet is a bitset of roles used for allowed-actor lists on transitions
// and state metadata.
type RoleSet uint16

// Roles builds a RoleSet from individual roles.
func Roles(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= 1 << r
	}
	return s
}

// Contains reports whether the set includes the given role.
func (s RoleSet) Contains(r Role) bool {
	return s&(1<<r) != 0
}

// IsEmpty reports whether no role is present.
func (s RoleSet) IsEmpty() bool {
	return s == 0
}

// Members expands the bitset back into a role slice, in enum order.
func (s RoleSet) Members() []Role {
	members := make([]Role, 0, roleCount)
	for r := RoleShipper; r < roleCount; r++ {
		if s.Contains(r) {
			members = append(members, r)
		}
	}
	return members
}
