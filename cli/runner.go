// Package cli implements the authsession command line tool.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jessevdk/go-flags"
	"github.com/viant/authsession"
)

// Run parses args and executes the selected command, writing results to stdout.
func Run(args []string, stdout, stderr io.Writer) error {
	options := &Options{}
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}
	ctx := context.Background()
	if err := options.LoadEnv(ctx); err != nil {
		return err
	}
	options.initStorage()
	options.Init()
	app, err := authsession.New(ctx, &options.Options, authsession.NewLogger(stderr, options.LogLevel))
	if err != nil {
		return err
	}
	defer app.Close()

	switch parser.Active.Name {
	case "login":
		return login(ctx, app, &options.Login, stdout)
	case "refresh":
		if err = app.Start(ctx); err != nil {
			return err
		}
		return status(app, stdout)
	case "status":
		return status(app, stdout)
	case "file-token":
		return fileToken(ctx, app, &options.FileToken, stdout)
	case "logout":
		return app.Logout(false)
	}
	return fmt.Errorf("unsupported command: %v", parser.Active.Name)
}

func login(ctx context.Context, app *authsession.App, cmd *LoginCommand, stdout io.Writer) error {
	if _, err := app.Client.Collection(cmd.Collection).AuthWithPassword(ctx, cmd.Identity, cmd.Password); err != nil {
		return handled(app, err, "Failed to authenticate.")
	}
	return status(app, stdout)
}

func fileToken(ctx context.Context, app *authsession.App, cmd *FileTokenCommand, stdout io.Writer) error {
	if cmd.Discover {
		if err := app.RefreshProtectedCollections(ctx); err != nil {
			return handled(app, err, "Failed to load collections.")
		}
	}
	token, err := app.FileToken(ctx, cmd.Collection)
	if err != nil {
		return handled(app, err, "Failed to get file token.")
	}
	_, err = fmt.Fprintln(stdout, token)
	return err
}

type sessionStatus struct {
	Valid      bool   `json:"valid"`
	RecordID   string `json:"recordId,omitempty"`
	Collection string `json:"collection,omitempty"`
	Superuser  bool   `json:"superuser"`
	Route      string `json:"route"`
}

func status(app *authsession.App, stdout io.Writer) error {
	record := app.Store.Record()
	output := &sessionStatus{
		Valid:      app.Store.IsValid(),
		RecordID:   record.ID(),
		Collection: record.CollectionName(),
		Superuser:  app.Superuser.IsSet(),
		Route:      app.Router.Current(),
	}
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}

// handled dispatches err, so the session reacts to it, and returns it.
func handled(app *authsession.App, err error, defaultMessage string) error {
	if dErr := app.HandleError(err, true, defaultMessage); dErr != nil {
		return dErr
	}
	return err
}
