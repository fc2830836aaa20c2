package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/eventaura/internal/client/client"
	"github.com/dmitrijs2005/eventaura/internal/common"
)

// Indirections swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	readFile      = os.ReadFile
)

// Register prompts for the account fields and an optional profile photo,
// which is uploaded to object storage before the account is created.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	photoPath, err := getSimpleText(a.reader, "Profile photo file (empty to skip)", a.out)
	if err != nil {
		return err
	}

	in := client.RegisterInput{Name: name, Email: email, Password: string(password)}
	if photoPath != "" {
		in.PhotoURL, err = a.uploadPhoto(ctx, photoPath)
		if err != nil {
			return err
		}
	}

	if _, err := a.api.Register(ctx, in); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registered. You can log in now.")
	return nil
}

func (a *App) uploadPhoto(ctx context.Context, path string) (string, error) {
	data, err := readFile(path)
	if err != nil {
		return "", err
	}
	contentType := http.DetectContentType(data)

	up, err := a.api.PresignPhoto(ctx, contentType)
	if err != nil {
		return "", err
	}
	if err := a.api.UploadPhoto(ctx, up.UploadURL, contentType, data); err != nil {
		return "", err
	}
	return up.PhotoURL, nil
}

// Login authenticates and persists the session cookie for later runs.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	profile, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.userName = profile.Name
	if err := a.saveSession(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", profile.Name)
	return nil
}

// Logout revokes the session on the server and drops the local copy. The
// local session is removed even if the server call fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	if ferr := a.forgetSession(); ferr != nil {
		return ferr
	}
	if err != nil && !errors.Is(err, client.ErrUnauthorized) {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	profile, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Name:  %s\n", profile.Name)
	if profile.PhotoURL != "" {
		fmt.Fprintf(a.out, "Photo: %s\n", profile.PhotoURL)
	}
	return nil
}
