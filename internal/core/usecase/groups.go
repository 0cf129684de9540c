package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ai4juris/juriscli/internal/core/domain"
	"github.com/ai4juris/juriscli/internal/core/ports"
)

// GroupPanel drives the group workspace: the user's groups and invites, the
// selected group's members, pending join requests and shared documents, and
// every membership command. Commands follow fire-and-confirm: issue the
// request, surface the server's message, re-fetch only the affected lists.
type GroupPanel struct {
	groups  ports.GroupAPI
	docs    ports.DocumentAPI
	notes   ports.Notifier
	confirm ports.Confirmer

	groupList  []domain.Group
	invites    []domain.Invite
	selectedID int64
	members    []domain.Member
	requests   []domain.JoinRequest

	// History browses the selected group's shared documents.
	History List
}

func NewGroupPanel(groups ports.GroupAPI, docs ports.DocumentAPI, notes ports.Notifier, confirm ports.Confirmer) *GroupPanel {
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	return &GroupPanel{
		groups:  groups,
		docs:    docs,
		notes:   notes,
		confirm: confirm,
		History: newList(defaultPageSize),
	}
}

// Load fetches the user's groups and pending invites, and selects the first
// group when nothing is selected yet.
func (p *GroupPanel) Load(ctx context.Context) error {
	if err := p.refreshGroups(ctx); err != nil {
		return err
	}
	if err := p.refreshInvites(ctx); err != nil {
		return err
	}
	if p.selectedID == 0 && len(p.groupList) > 0 {
		return p.Select(ctx, p.groupList[0].ID)
	}
	return nil
}

// Select switches the panel to the given group and fetches its members and
// shared documents. Join requests are visible to owners only.
func (p *GroupPanel) Select(ctx context.Context, groupID int64) error {
	group, ok := p.groupByID(groupID)
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "select group", fmt.Errorf("group %d", groupID))
	}
	p.selectedID = groupID

	if err := p.refreshMembers(ctx); err != nil {
		return err
	}
	if err := p.refreshHistory(ctx); err != nil {
		return err
	}
	if group.IsOwner() {
		return p.refreshRequests(ctx)
	}
	p.requests = nil
	return nil
}

func (p *GroupPanel) refreshGroups(ctx context.Context) error {
	groups, err := p.groups.MyGroups(ctx)
	if err != nil {
		return err
	}
	p.groupList = groups
	return nil
}

func (p *GroupPanel) refreshInvites(ctx context.Context) error {
	invites, err := p.groups.MyInvites(ctx)
	if err != nil {
		return err
	}
	p.invites = invites
	return nil
}

func (p *GroupPanel) refreshMembers(ctx context.Context) error {
	members, err := p.groups.Members(ctx, p.selectedID)
	if err != nil {
		return err
	}
	p.members = members
	return nil
}

func (p *GroupPanel) refreshRequests(ctx context.Context) error {
	requests, err := p.groups.JoinRequests(ctx, p.selectedID)
	if err != nil {
		return err
	}
	p.requests = requests
	return nil
}

func (p *GroupPanel) refreshHistory(ctx context.Context) error {
	docs, err := p.docs.GroupDocuments(ctx, p.selectedID)
	if err != nil {
		return err
	}
	p.History.Replace(docs)
	return nil
}

func (p *GroupPanel) groupByID(id int64) (domain.Group, bool) {
	for _, g := range p.groupList {
		if g.ID == id {
			return g, true
		}
	}
	return domain.Group{}, false
}

func (p *GroupPanel) memberByID(id int64) (domain.Member, bool) {
	for _, m := range p.members {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Member{}, false
}

func (p *GroupPanel) Groups() []domain.Group { return p.groupList }

func (p *GroupPanel) Invites() []domain.Invite { return p.invites }

func (p *GroupPanel) Members() []domain.Member { return p.members }

func (p *GroupPanel) Requests() []domain.JoinRequest { return p.requests }

func (p *GroupPanel) SelectedID() int64 { return p.selectedID }

// Selected returns the selected group, or false when none is selected.
func (p *GroupPanel) Selected() (domain.Group, bool) {
	return p.groupByID(p.selectedID)
}

// command issues a mutation and surfaces its outcome: the server's message
// when present, the given defaults otherwise. On success the refresh funcs
// re-fetch the lists the command touched.
func (p *GroupPanel) command(ctx context.Context, run func() (string, error), okMsg, failMsg string, refresh ...func(context.Context) error) error {
	message, err := run()
	if err != nil {
		p.notes.Error(domain.UserMessage(err, failMsg))
		return err
	}
	if strings.TrimSpace(message) == "" {
		message = okMsg
	}
	p.notes.Success(message)
	for _, fn := range refresh {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Create creates a group and re-fetches the group list.
func (p *GroupPanel) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		p.notes.Error("O nome do grupo é obrigatório.")
		return domain.WrapError(domain.ErrInvalidInput, "create group", errors.New("empty name"))
	}
	return p.command(ctx,
		func() (string, error) { return p.groups.Create(ctx, name) },
		"Grupo criado.", "Erro ao criar grupo.",
		p.refreshGroups)
}

// JoinByCode sends a join request for the group behind an invite code.
func (p *GroupPanel) JoinByCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		p.notes.Error("O código de convite é obrigatório.")
		return domain.WrapError(domain.ErrInvalidInput, "join group", errors.New("empty code"))
	}
	return p.command(ctx,
		func() (string, error) { return p.groups.JoinByCode(ctx, code) },
		"Pedido enviado.", "Erro ao enviar pedido.",
		p.refreshGroups)
}

// Invite invites a user by email into the selected group.
func (p *GroupPanel) Invite(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		p.notes.Error("O email é obrigatório.")
		return domain.WrapError(domain.ErrInvalidInput, "invite member", errors.New("empty email"))
	}
	return p.command(ctx,
		func() (string, error) { return p.groups.Invite(ctx, p.selectedID, email) },
		"Convite enviado.", "Erro ao convidar.",
		p.refreshRequests)
}

// AcceptInvite accepts one of the user's pending invites.
func (p *GroupPanel) AcceptInvite(ctx context.Context, inviteID int64) error {
	return p.command(ctx,
		func() (string, error) { return p.groups.AcceptInvite(ctx, inviteID) },
		"Convite aceite.", "Erro ao aceitar convite.",
		p.refreshInvites, p.refreshGroups)
}

// DeclineInvite declines one of the user's pending invites.
func (p *GroupPanel) DeclineInvite(ctx context.Context, inviteID int64) error {
	return p.command(ctx,
		func() (string, error) { return p.groups.DeclineInvite(ctx, inviteID) },
		"Convite recusado.", "Erro ao recusar convite.",
		p.refreshInvites)
}

// ApproveRequest approves a pending join request for the selected group.
func (p *GroupPanel) ApproveRequest(ctx context.Context, requestID int64) error {
	return p.command(ctx,
		func() (string, error) { return p.groups.ApproveRequest(ctx, requestID) },
		"Pedido aprovado.", "Erro ao aprovar pedido.",
		p.refreshRequests, p.refreshMembers)
}

// RejectRequest rejects a pending join request for the selected group.
func (p *GroupPanel) RejectRequest(ctx context.Context, requestID int64) error {
	return p.command(ctx,
		func() (string, error) { return p.groups.RejectRequest(ctx, requestID) },
		"Pedido recusado.", "Erro ao recusar pedido.",
		p.refreshRequests)
}

// Promote makes a member owner. The owner cap is enforced locally before any
// request goes out.
func (p *GroupPanel) Promote(ctx context.Context, memberID int64) error {
	if domain.CountOwners(p.members) >= domain.MaxOwners {
		p.notes.Error("Limite de 2 owners atingido.")
		return domain.WrapError(domain.ErrInvalidInput, "promote member", errors.New("owner cap reached"))
	}
	return p.command(ctx,
		func() (string, error) { return p.groups.Promote(ctx, p.selectedID, memberID) },
		"Owner atualizado.", "Erro ao promover.",
		p.refreshMembers, p.refreshGroups)
}

// Demote strips a member's owner role.
func (p *GroupPanel) Demote(ctx context.Context, memberID int64) error {
	return p.command(ctx,
		func() (string, error) { return p.groups.Demote(ctx, p.selectedID, memberID) },
		"Owner atualizado.", "Erro ao rebaixar.",
		p.refreshMembers, p.refreshGroups)
}

// Remove expels a member after confirmation. Declining the prompt issues no
// request.
func (p *GroupPanel) Remove(ctx context.Context, memberID int64) error {
	prompt := "Expulsar este membro do grupo?"
	if member, ok := p.memberByID(memberID); ok {
		prompt = fmt.Sprintf("Expulsar %s do grupo?", member.Email)
	}
	if !p.confirm(prompt) {
		return nil
	}
	return p.command(ctx,
		func() (string, error) { return p.groups.Remove(ctx, p.selectedID, memberID) },
		"Membro removido.", "Erro ao expulsar.",
		p.refreshMembers)
}

// Leave exits the selected group after confirmation and clears the
// selection.
func (p *GroupPanel) Leave(ctx context.Context) error {
	prompt := "Sair do grupo?"
	if group, ok := p.Selected(); ok {
		prompt = fmt.Sprintf("Sair do grupo %s?", group.Name)
	}
	if !p.confirm(prompt) {
		return nil
	}
	err := p.command(ctx,
		func() (string, error) { return p.groups.Leave(ctx, p.selectedID) },
		"Saíste do grupo.", "Erro ao sair do grupo.",
		p.refreshGroups, p.refreshInvites)
	if err != nil {
		return err
	}
	p.selectedID = 0
	p.members = nil
	p.requests = nil
	p.History.Replace(nil)
	return nil
}
