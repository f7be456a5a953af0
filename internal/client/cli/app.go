// Package cli implements the interactive AuthKeeper client. It talks to the
// server's HTTP API and keeps the session token in memory for the lifetime
// of the process.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/client/config"
)

type App struct {
	config *config.Config
	api    *apiClient
	token  string
	email  string
	reader *bufio.Reader
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    newAPIClient(c.ServerAddr),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.email
	}
	return "not logged in"
}

// Register prompts for account details and creates a new account.
func (a *App) Register(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	name, err := GetSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	id, err := a.api.Register(ctx, email, name, password)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Account created:", id)
	return nil
}

// Login prompts for credentials and stores the issued token on success.
func (a *App) Login(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	token, err := a.api.Login(ctx, email, password)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	a.token = token
	a.email = email
	printlnFn("Logged in as", email)
	return nil
}

// Whoami asks the server which identity the current token is bound to.
func (a *App) Whoami(ctx context.Context) error {

	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return nil
	}

	id, email, err := a.api.Whoami(ctx, a.token)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Account:", id, email)
	return nil
}

// Logout discards the in-memory token. Tokens are stateless, so the server
// keeps no session to tear down.
func (a *App) Logout(ctx context.Context) error {
	a.token = ""
	a.email = ""
	printlnFn("Logged out")
	return nil
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}
