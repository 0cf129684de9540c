package workspace

import (
	"context"
	"fmt"

	"github.com/ai4juris/juriscli/internal/core/domain"
)

type GroupService struct {
	client *Client
}

func NewGroupService(client *Client) *GroupService {
	return &GroupService{client: client}
}

func (s *GroupService) MyGroups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	if err := s.client.getJSON(ctx, "/groups/my/", &groups, "list groups"); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *GroupService) Members(ctx context.Context, groupID int64) ([]domain.Member, error) {
	var members []domain.Member
	if err := s.client.getJSON(ctx, fmt.Sprintf("/groups/%d/members/", groupID), &members, "list members"); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *GroupService) JoinRequests(ctx context.Context, groupID int64) ([]domain.JoinRequest, error) {
	var requests []domain.JoinRequest
	if err := s.client.getJSON(ctx, fmt.Sprintf("/groups/%d/join-requests/", groupID), &requests, "list join requests"); err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *GroupService) MyInvites(ctx context.Context) ([]domain.Invite, error) {
	var invites []domain.Invite
	if err := s.client.getJSON(ctx, "/groups/invites/my/", &invites, "list invites"); err != nil {
		return nil, err
	}
	return invites, nil
}

func (s *GroupService) Create(ctx context.Context, name string) (string, error) {
	return s.command(ctx, "/groups/create/", map[string]string{"name": name}, "create group")
}

func (s *GroupService) JoinByCode(ctx context.Context, code string) (string, error) {
	return s.command(ctx, fmt.Sprintf("/groups/join/%s/", code), nil, "join group")
}

func (s *GroupService) Invite(ctx context.Context, groupID int64, email string) (string, error) {
	path := fmt.Sprintf("/groups/%d/invite/", groupID)
	return s.command(ctx, path, map[string]string{"email": email}, "invite member")
}

func (s *GroupService) AcceptInvite(ctx context.Context, inviteID int64) (string, error) {
	return s.command(ctx, fmt.Sprintf("/groups/invites/%d/accept/", inviteID), nil, "accept invite")
}

func (s *GroupService) DeclineInvite(ctx context.Context, inviteID int64) (string, error) {
	return s.command(ctx, fmt.Sprintf("/groups/invites/%d/decline/", inviteID), nil, "decline invite")
}

func (s *GroupService) ApproveRequest(ctx context.Context, requestID int64) (string, error) {
	return s.command(ctx, fmt.Sprintf("/groups/join-requests/%d/approve/", requestID), nil, "approve join request")
}

func (s *GroupService) RejectRequest(ctx context.Context, requestID int64) (string, error) {
	return s.command(ctx, fmt.Sprintf("/groups/join-requests/%d/reject/", requestID), nil, "reject join request")
}

func (s *GroupService) Promote(ctx context.Context, groupID, memberID int64) (string, error) {
	return s.command(ctx, fmt.Sprintf("/groups/%d/promote/%d/", groupID, memberID), nil, "promote member")
}

func (s *GroupService) Demote(ctx context.Context, groupID, memberID int64) (string, error) {
	return s.command(ctx, fmt.Sprintf("/groups/%d/demote/%d/", groupID, memberID), nil, "demote member")
}

func (s *GroupService) Remove(ctx context.Context, groupID, memberID int64) (string, error) {
	return s.command(ctx, fmt.Sprintf("/groups/%d/remove/%d/", groupID, memberID), nil, "remove member")
}

func (s *GroupService) Leave(ctx context.Context, groupID int64) (string, error) {
	return s.command(ctx, fmt.Sprintf("/groups/%d/leave/", groupID), nil, "leave group")
}

// command issues one membership mutation and returns the server-supplied
// confirmation message.
func (s *GroupService) command(ctx context.Context, path string, payload any, operation string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := s.client.postJSON(ctx, path, payload, &resp, operation); err != nil {
		return "", err
	}
	return resp.Message, nil
}
