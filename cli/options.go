package cli

import (
	"os"
	"path/filepath"

	"github.com/viant/authsession"
)

// configDir is the directory under the user config directory holding the session.
const configDir = "authsession"

// Options are the command line options.
type Options struct {
	authsession.Options
	Login     LoginCommand     `command:"login" description:"authenticate with identity and password"`
	Refresh   RefreshCommand   `command:"refresh" description:"refresh the stored session"`
	Status    StatusCommand    `command:"status" description:"print the stored session"`
	FileToken FileTokenCommand `command:"file-token" description:"print a protected file token"`
	Logout    LogoutCommand    `command:"logout" description:"clear the stored session"`
}

type LoginCommand struct {
	Collection string `short:"c" long:"collection" description:"auth collection" default:"_superusers"`
	Identity   string `short:"i" long:"identity" description:"email or username" required:"true"`
	Password   string `short:"p" long:"password" env:"AUTHSESSION_PASSWORD" description:"password" required:"true"`
}

type RefreshCommand struct{}

type StatusCommand struct{}

type FileTokenCommand struct {
	Collection string `short:"c" long:"collection" description:"collection id, empty always requests a token"`
	Discover   bool   `short:"d" long:"discover" description:"load protected collections before resolving the token"`
}

type LogoutCommand struct{}

// DefaultStorageURL returns the session directory under the user config
// directory, or "" when the user has none.
func DefaultStorageURL() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, configDir)
}

// initStorage keeps sessions across invocations unless storage was set explicitly.
func (o *Options) initStorage() {
	if o.StorageURL == "" && o.RedisAddr == "" {
		o.StorageURL = DefaultStorageURL()
	}
}
