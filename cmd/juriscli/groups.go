package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/ai4juris/juriscli/internal/bootstrap"
	"github.com/ai4juris/juriscli/internal/core/usecase"
)

const groupsUsage = `uso: groups <subcomando>

  list                              grupos e convites pendentes
  create   -name                    criar um grupo
  show     -group                   membros, pedidos e documentos do grupo
  invite   -group -email            convidar por email
  join     -code                    pedir entrada com código de convite
  approve  -group -id               aprovar pedido de entrada
  reject   -group -id               recusar pedido de entrada
  promote  -group -id               promover membro a owner
  demote   -group -id               retirar o papel de owner
  remove   -group -id               expulsar membro
  leave    -group                   sair do grupo
  upload   -group <ficheiro.pdf>    enviar PDF para o grupo
`

func runGroups(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) == 0 {
		fmt.Print(groupsUsage)
		return nil
	}
	sub, rest := args[0], args[1:]

	panel := app.GroupPanel(confirmPrompt)

	switch sub {
	case "list":
		if err := panel.Load(ctx); err != nil {
			return err
		}
		printGroups(panel)
		return nil
	case "create":
		fs := flag.NewFlagSet("groups create", flag.ContinueOnError)
		name := fs.String("name", "", "nome do grupo")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return panel.Create(ctx, *name)
	case "join":
		fs := flag.NewFlagSet("groups join", flag.ContinueOnError)
		code := fs.String("code", "", "código de convite")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return panel.JoinByCode(ctx, *code)
	case "show":
		groupID, _, err := groupFlags(sub, rest)
		if err != nil {
			return err
		}
		if err := loadAndSelect(ctx, panel, groupID); err != nil {
			return err
		}
		printGroupDetail(panel)
		return nil
	case "invite":
		fs := flag.NewFlagSet("groups invite", flag.ContinueOnError)
		groupID := fs.Int64("group", 0, "id do grupo")
		email := fs.String("email", "", "email a convidar")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := loadAndSelect(ctx, panel, *groupID); err != nil {
			return err
		}
		return panel.Invite(ctx, *email)
	case "approve", "reject", "promote", "demote", "remove":
		groupID, id, err := groupFlags(sub, rest)
		if err != nil {
			return err
		}
		if err := loadAndSelect(ctx, panel, groupID); err != nil {
			return err
		}
		switch sub {
		case "approve":
			return panel.ApproveRequest(ctx, id)
		case "reject":
			return panel.RejectRequest(ctx, id)
		case "promote":
			return panel.Promote(ctx, id)
		case "demote":
			return panel.Demote(ctx, id)
		default:
			return panel.Remove(ctx, id)
		}
	case "leave":
		groupID, _, err := groupFlags(sub, rest)
		if err != nil {
			return err
		}
		if err := loadAndSelect(ctx, panel, groupID); err != nil {
			return err
		}
		return panel.Leave(ctx)
	case "upload":
		fs := flag.NewFlagSet("groups upload", flag.ContinueOnError)
		groupID := fs.Int64("group", 0, "id do grupo")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if fs.NArg() < 1 {
			return fmt.Errorf("uso: groups upload -group <id> <ficheiro.pdf>")
		}
		return runUpload(ctx, app, []string{"-group", fmt.Sprint(*groupID), fs.Arg(0)})
	default:
		fmt.Print(groupsUsage)
		return fmt.Errorf("subcomando desconhecido: %s", sub)
	}
}

func groupFlags(name string, args []string) (groupID, id int64, err error) {
	fs := flag.NewFlagSet("groups "+name, flag.ContinueOnError)
	group := fs.Int64("group", 0, "id do grupo")
	target := fs.Int64("id", 0, "id do membro, pedido ou convite")
	if err := fs.Parse(args); err != nil {
		return 0, 0, err
	}
	return *group, *target, nil
}

func loadAndSelect(ctx context.Context, panel *usecase.GroupPanel, groupID int64) error {
	if err := panel.Load(ctx); err != nil {
		return err
	}
	if groupID == 0 {
		if _, ok := panel.Selected(); !ok {
			return fmt.Errorf("não pertences a nenhum grupo")
		}
		return nil
	}
	return panel.Select(ctx, groupID)
}

func printGroups(panel *usecase.GroupPanel) {
	groups := panel.Groups()
	if len(groups) == 0 {
		fmt.Println("Sem grupos.")
	}
	for _, g := range groups {
		marker := " "
		if g.IsOwner() {
			marker = "*"
		}
		fmt.Printf("%6d %s %-30s %d membros\n", g.ID, marker, g.Name, g.MembersCount)
	}

	invites := panel.Invites()
	if len(invites) > 0 {
		fmt.Println("\nConvites pendentes:")
		for _, inv := range invites {
			from := inv.InvitedByEmail
			if from == "" {
				from = "?"
			}
			fmt.Printf("%6d  %-30s convidado por %s\n", inv.ID, inv.GroupName, from)
		}
	}
}

func printGroupDetail(panel *usecase.GroupPanel) {
	group, ok := panel.Selected()
	if !ok {
		return
	}
	fmt.Printf("Grupo %d — %s\n", group.ID, group.Name)
	if group.IsOwner() && group.InviteCode != "" {
		fmt.Printf("Código de convite: %s\n", group.InviteCode)
	}

	fmt.Println("\nMembros:")
	for _, m := range panel.Members() {
		fmt.Printf("%6d  %-30s %s\n", m.ID, m.Email, strings.ToLower(m.Role))
	}

	if requests := panel.Requests(); len(requests) > 0 {
		fmt.Println("\nPedidos de entrada:")
		for _, r := range requests {
			fmt.Printf("%6d  %s\n", r.ID, r.UserEmail)
		}
	}

	page := panel.History.View()
	if page.Total > 0 {
		fmt.Println("\nDocumentos partilhados:")
		printDocumentPage(page)
	}
}

func runInvites(ctx context.Context, app *bootstrap.App, args []string) error {
	panel := app.GroupPanel(confirmPrompt)

	if len(args) == 0 {
		if err := panel.Load(ctx); err != nil {
			return err
		}
		invites := panel.Invites()
		if len(invites) == 0 {
			fmt.Println("Sem convites pendentes.")
			return nil
		}
		for _, inv := range invites {
			fmt.Printf("%6d  %s\n", inv.ID, inv.GroupName)
		}
		return nil
	}

	sub, rest := args[0], args[1:]
	fs := flag.NewFlagSet("invites "+sub, flag.ContinueOnError)
	id := fs.Int64("id", 0, "id do convite")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if err := panel.Load(ctx); err != nil {
		return err
	}

	switch sub {
	case "accept":
		return panel.AcceptInvite(ctx, *id)
	case "decline":
		return panel.DeclineInvite(ctx, *id)
	default:
		return fmt.Errorf("uso: invites [accept|decline -id <id>]")
	}
}
