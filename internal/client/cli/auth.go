package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophgallery/internal/common"
)

// Input seams, swapped in tests.
var (
	prompt     = Prompt
	readSecret = ReadSecret
)

func (a *App) credentials() (string, []byte, error) {
	email, err := prompt(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	secret, err := readSecret(a.reader, a.out)
	if err != nil {
		return "", nil, err
	}
	return email, secret, nil
}

// SignUp registers a new account and switches the gallery to it.
func (a *App) SignUp(ctx context.Context) error {
	return a.withCredentials(ctx, a.client.Session.SignUp, "Signed up as")
}

// SignIn switches the gallery to an existing account. On the local backends
// "guest" is accepted with any secret.
func (a *App) SignIn(ctx context.Context) error {
	return a.withCredentials(ctx, a.client.Session.SignIn, "Signed in as")
}

func (a *App) withCredentials(ctx context.Context, fn func(context.Context, string, []byte) error, done string) error {
	email, secret, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	if err := fn(ctx, email, secret); err != nil {
		return err
	}
	fmt.Fprintln(a.out, done, a.client.Session.DisplayName())
	return a.List(ctx)
}

func (a *App) SignOut(ctx context.Context) error {
	if err := a.client.Session.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) WhoAmI(context.Context) error {
	printIdentity(a.out, a.client.Session.DisplayName(), a.isSignedIn())
	return nil
}

func printIdentity(w io.Writer, name string, active bool) {
	if !active || name == "" {
		fmt.Fprintln(w, "Not signed in")
		return
	}
	fmt.Fprintln(w, name)
}
