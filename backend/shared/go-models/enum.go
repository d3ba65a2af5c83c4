package models

import (
	"fmt"
	"slices"
	"strings"
)

// Enum is implemented by every closed vocabulary in this package. The
// repository validator uses it for the `enum` tag so member lists are never
// repeated in struct tags.
type Enum interface {
	Valid() bool
}

func parseEnum[T ~string](kind, raw string, members []T) (T, error) {
	trimmed := strings.TrimSpace(raw)
	for _, v := range []T{T(strings.ToUpper(trimmed)), T(strings.ToLower(trimmed))} {
		if slices.Contains(members, v) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid %s: %q", kind, raw)
}

// ------------------------------------------------------------------------
// Priority is shared by maintenance requests and notifications.
// ------------------------------------------------------------------------
type Priority string

const (
	PriorityLow       Priority = "LOW"
	PriorityMedium    Priority = "MEDIUM"
	PriorityHigh      Priority = "HIGH"
	PriorityUrgent    Priority = "URGENT"
	PriorityEmergency Priority = "EMERGENCY"
)

var priorities = []Priority{
	PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent, PriorityEmergency,
}

// MaintenancePriority and NotificationPriority are the same vocabulary.
type (
	MaintenancePriority  = Priority
	NotificationPriority = Priority
)

func (Priority) Values() []Priority           { return slices.Clone(priorities) }
func (p Priority) Valid() bool                 { return slices.Contains(priorities, p) }
func ParsePriority(s string) (Priority, error) { return parseEnum("priority", s, priorities) }

// IsUrgent reports whether the priority needs same-day attention.
func (p Priority) IsUrgent() bool {
	return p == PriorityUrgent || p == PriorityEmergency
}

// Rank orders priorities from LOW (0) to EMERGENCY (4); unknown values rank -1.
func (p Priority) Rank() int {
	return slices.Index(priorities, p)
}

// ------------------------------------------------------------------------
// UserRole
// ------------------------------------------------------------------------
type UserRole string

const (
	UserRoleOwner   UserRole = "OWNER"
	UserRoleManager UserRole = "MANAGER"
	UserRoleTenant  UserRole = "TENANT"
	UserRoleAdmin   UserRole = "ADMIN"
)

var userRoles = []UserRole{UserRoleOwner, UserRoleManager, UserRoleTenant, UserRoleAdmin}

func (UserRole) Values() []UserRole            { return slices.Clone(userRoles) }
func (r UserRole) Valid() bool                 { return slices.Contains(userRoles, r) }
func ParseUserRole(s string) (UserRole, error) { return parseEnum("user role", s, userRoles) }
