package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/ai4juris/juriscli/internal/bootstrap"
	"github.com/ai4juris/juriscli/internal/core/usecase"
)

func runLogin(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email da conta")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	account, err := app.Accounts().SignIn(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Sessão iniciada como %s <%s>\n", account.Name, account.Email)
	return nil
}

func runRegister(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "nome")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	confirm := fs.String("confirm", "", "confirmação da password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *confirm == "" {
		*confirm = *password
	}

	account, err := app.Accounts().Register(ctx, *name, *email, *password, *confirm)
	if err != nil {
		return err
	}
	fmt.Printf("Conta criada: %s <%s>\n", account.Name, account.Email)
	return nil
}

func runLogout(app *bootstrap.App) error {
	if err := app.Accounts().SignOut(); err != nil {
		return err
	}
	fmt.Println("Sessão terminada.")
	return nil
}

func runProfile(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "novo nome")
	email := fs.String("email", "", "novo email")
	currentPassword := fs.String("current-password", "", "password atual")
	newPassword := fs.String("new-password", "", "nova password")
	confirmPassword := fs.String("confirm-password", "", "confirmação da nova password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow := app.Accounts()
	current, err := flow.Profile(ctx)
	if err != nil {
		return err
	}

	editing := *name != "" || *email != "" || *newPassword != ""
	if !editing {
		fmt.Printf("Nome:  %s\nEmail: %s\n", current.Name, current.Email)
		return nil
	}

	updated, err := flow.UpdateProfile(ctx, *current, usecase.ProfileForm{
		Name:            *name,
		Email:           *email,
		CurrentPassword: *currentPassword,
		NewPassword:     *newPassword,
		ConfirmPassword: *confirmPassword,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Nome:  %s\nEmail: %s\n", updated.Name, updated.Email)
	return nil
}
