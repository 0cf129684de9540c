package domain

import (
	"strings"
	"time"
)

type GroupRole string

const (
	RoleOwner  GroupRole = "owner"
	RoleMember GroupRole = "member"
)

// NormalizeRole collapses whatever the server sends into the two roles the
// client understands. Anything that is not an owner is a member.
func NormalizeRole(raw string) GroupRole {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleOwner)) {
		return RoleOwner
	}
	return RoleMember
}

// MaxOwners is the owner cap pre-validated client-side before a promote
// command is sent. The server remains authoritative.
const MaxOwners = 2

type Group struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role,omitempty"`
	MembersCount int    `json:"members_count,omitempty"`
	InviteCode   string `json:"invite_code,omitempty"`
}

func (g Group) IsOwner() bool {
	return NormalizeRole(g.Role) == RoleOwner
}

type Member struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CountOwners counts members holding the owner role after normalization.
func CountOwners(members []Member) int {
	n := 0
	for _, m := range members {
		if NormalizeRole(m.Role) == RoleOwner {
			n++
		}
	}
	return n
}

// JoinRequest is a pending request by a non-member to join a group,
// awaiting owner approval.
type JoinRequest struct {
	ID        int64     `json:"id"`
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Invite is a pending invitation issued by a group owner to a specific
// email, awaiting the invitee's acceptance.
type Invite struct {
	ID             int64  `json:"id"`
	GroupName      string `json:"group_name"`
	InvitedByEmail string `json:"invited_by_email,omitempty"`
}
