package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vsinha/garmentmrp/pkg/infrastructure/auth"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/config"
)

// TokenCommand prints an API token for local use
type TokenCommand struct {
	configFile string
	subject    string
	role       auth.Role
	out        io.Writer
}

// NewTokenCommand creates a token command
func NewTokenCommand(configFile, subject string, role auth.Role, out io.Writer) *TokenCommand {
	if out == nil {
		out = os.Stdout
	}
	return &TokenCommand{configFile: configFile, subject: subject, role: role, out: out}
}

// Execute mints and prints the token
func (c *TokenCommand) Execute(_ context.Context) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app, err := NewApp(cfg, nil)
	if err != nil {
		return err
	}
	token, err := app.MintToken(c.subject, c.role)
	if err != nil {
		return fmt.Errorf("failed to mint token: %w", err)
	}
	fmt.Fprintln(c.out, token)
	return nil
}
