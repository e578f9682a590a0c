// Command bridgetoken creates a bridge token and the CORONED_BRIDGE_TOKENS
// entry holding its bcrypt hash.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/auth"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "bridgetoken:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("bridgetoken", flag.ContinueOnError)
	name := fs.String("name", "discord", "bridge name")
	token := fs.String("token", "", "reuse this token instead of generating one")
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	secret := *token
	if secret == "" {
		var err error
		if secret, err = auth.GenerateToken(); err != nil {
			return err
		}
	}
	hash, err := auth.HashToken(secret, *cost)
	if err != nil {
		return err
	}
	// same validation the server runs at startup
	if _, err := auth.NewBridges(map[string]string{*name: hash}); err != nil {
		return err
	}

	fmt.Fprintf(out, "token: %s\n", secret)
	fmt.Fprintf(out, "CORONED_BRIDGE_TOKENS=%s:%s\n", *name, hash)
	return nil
}
