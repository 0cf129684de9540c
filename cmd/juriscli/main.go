package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ai4juris/juriscli/internal/bootstrap"
	"github.com/ai4juris/juriscli/internal/config"
	"github.com/ai4juris/juriscli/internal/core/domain"
)

const usageText = `juriscli — cliente do espaço de documentos

Comandos:
  login      -email -password            iniciar sessão
  register   -name -email -password     criar conta
  logout                                 terminar sessão
  profile    [-name -email ...]          ver ou editar o perfil
  docs       [-search -status -label]    histórico pessoal de documentos
  doc        <id> [-watch -chat]         detalhe de um documento
  upload     <ficheiro.pdf> [-group]     enviar um PDF
  groups     <subcomando>                grupos partilhados
  invites    [accept|decline -id]        convites pendentes
`

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	if err := dispatch(ctx, app, os.Args[1], os.Args[2:]); err != nil {
		if domain.IsKind(err, domain.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "Sessão expirada. Faz login novamente.")
		} else {
			fmt.Fprintf(os.Stderr, "erro: %v\n", err)
		}
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, app *bootstrap.App, command string, args []string) error {
	switch command {
	case "login":
		return runLogin(ctx, app, args)
	case "register":
		return runRegister(ctx, app, args)
	case "logout":
		return runLogout(app)
	case "profile":
		return runProfile(ctx, app, args)
	case "docs":
		return runDocs(ctx, app, args)
	case "doc":
		return runDoc(ctx, app, args)
	case "upload":
		return runUpload(ctx, app, args)
	case "groups":
		return runGroups(ctx, app, args)
	case "invites":
		return runInvites(ctx, app, args)
	case "help", "-h", "--help":
		fmt.Print(usageText)
		return nil
	default:
		fmt.Fprint(os.Stderr, usageText)
		return fmt.Errorf("comando desconhecido: %s", command)
	}
}

// confirmPrompt asks a yes/no question on the terminal.
func confirmPrompt(prompt string) bool {
	fmt.Printf("%s [s/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "s" || answer == "sim" || answer == "y"
}
