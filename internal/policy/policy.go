// Package policy decides whether a caller may see or mutate a record. Every
// denial is a distinct error so handlers can surface the precise reason.
package policy

import (
	"errors"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
)

var (
	// ErrNotAdmin indicates the operation requires the administrator role.
	ErrNotAdmin = errors.New("administrator role required")
	// ErrNotOwner indicates the caller does not own the target record.
	ErrNotOwner = errors.New("access denied: not the record owner")
	// ErrCannotSuspendAdmin indicates the target of a suspension holds the admin role.
	ErrCannotSuspendAdmin = errors.New("cannot suspend another administrator")
	// ErrCannotSuspendSelf indicates a caller attempted to suspend their own account.
	ErrCannotSuspendSelf = errors.New("cannot suspend your own account")
)

// Caller identifies the authenticated principal a request acts on behalf of.
type Caller struct {
	ID   uint
	Role string
}

// IsAdmin reports whether the caller holds the administrator role.
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// LoopScope returns the creator restriction for loop queries: nil for admins
// (unrestricted) or the caller's own ID for agents.
func LoopScope(caller Caller) *uint {
	if caller.IsAdmin() {
		return nil
	}
	id := caller.ID
	return &id
}

// CanViewLoop permits admins and the owning agent.
func CanViewLoop(caller Caller, loop models.Loop) error {
	if caller.IsAdmin() || loop.CreatorID == caller.ID {
		return nil
	}
	return ErrNotOwner
}

// CanUpdateLoop applies the same ownership rule as viewing.
func CanUpdateLoop(caller Caller, loop models.Loop) error {
	return CanViewLoop(caller, loop)
}

// CanDeleteLoop requires the administrator role regardless of ownership.
func CanDeleteLoop(caller Caller) error {
	if !caller.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

// CanArchiveLoop requires the administrator role regardless of ownership.
func CanArchiveLoop(caller Caller) error {
	if !caller.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

// CanChangePassword permits changing one's own password; changing anyone
// else's requires the administrator role.
func CanChangePassword(caller Caller, targetID uint) error {
	if targetID == caller.ID {
		return nil
	}
	if !caller.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

// CanSuspendUser requires admin, forbids suspending admins, and forbids
// self-suspension. Checks run in that order.
func CanSuspendUser(caller Caller, target models.User) error {
	if !caller.IsAdmin() {
		return ErrNotAdmin
	}
	if target.IsAdmin() {
		return ErrCannotSuspendAdmin
	}
	if target.ID == caller.ID {
		return ErrCannotSuspendSelf
	}
	return nil
}

// CanUnsuspendUser requires the administrator role only.
func CanUnsuspendUser(caller Caller) error {
	if !caller.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

// IsDenial reports whether err is one of the policy denial errors.
func IsDenial(err error) bool {
	return errors.Is(err, ErrNotAdmin) ||
		errors.Is(err, ErrNotOwner) ||
		errors.Is(err, ErrCannotSuspendAdmin) ||
		errors.Is(err, ErrCannotSuspendSelf)
}
