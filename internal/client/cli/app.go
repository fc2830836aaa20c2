package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/eventaura/internal/client/client"
	"github.com/dmitrijs2005/eventaura/internal/client/config"
	"github.com/dmitrijs2005/eventaura/internal/filex"
)

const (
	stateDirName    = ".eventaura"
	sessionFileName = "session"
)

type App struct {
	config      *config.Config
	api         client.Client
	reader      *bufio.Reader
	out         io.Writer
	sessionPath string
	userName    string
}

func NewApp(c *config.Config) (*App, error) {
	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	dir, err := filex.EnsureSubDir(c.StateDir, stateDirName)
	if err != nil {
		return nil, err
	}

	return &App{
		config:      c,
		api:         api,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		sessionPath: filepath.Join(dir, sessionFileName),
	}, nil
}

// Run restores a saved session and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Event Aura CLI (type 'help' for commands)")

	if err := a.api.Ping(ctx); err != nil {
		log.Printf("server check failed: %v", err)
	}
	if err := a.restoreSession(ctx); err != nil {
		log.Printf("session restore failed: %v", err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.api.SessionToken() != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.userName)
}

func (a *App) restoreSession(ctx context.Context) error {
	b, err := filex.ReadOptional(a.sessionPath)
	if err != nil || len(b) == 0 {
		return err
	}

	a.api.SetSessionToken(strings.TrimSpace(string(b)))
	claims, err := a.api.CheckAuth(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return a.forgetSession()
		}
		return err
	}

	a.userName = claims.Name
	return nil
}

func (a *App) saveSession() error {
	return filex.WritePrivate(a.sessionPath, []byte(a.api.SessionToken()))
}

func (a *App) forgetSession() error {
	a.api.SetSessionToken("")
	a.userName = ""
	return filex.RemoveOptional(a.sessionPath)
}
