// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

// memobridge serves the Memos note tool catalog over the Model Context
// Protocol on stdin/stdout.
//
// The credential is resolved once at startup, either a personal access
// token (--token-path, MEMOS_TOKEN, or token_path in the config file)
// for a root session, or a username/password sign-in (--username) for
// a derived session that is signed out on exit. One blocking identity
// check runs before serving; if the credential does not resolve to a
// user, the process exits non-zero without serving a single request.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/memobridge/memobridge/lib/config"
	"github.com/memobridge/memobridge/lib/secret"
	"github.com/memobridge/memobridge/lib/version"
	"github.com/memobridge/memobridge/mcp"
	"github.com/memobridge/memobridge/memos"
)

// Environment variables consulted when the corresponding flag is unset.
const (
	envHost  = "MEMOS_HOST"
	envToken = "MEMOS_TOKEN"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "memobridge: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("memobridge", pflag.ContinueOnError)
	host := flags.String("host", "", "Memos server host (or MEMOS_HOST)")
	tokenPath := flags.String("token-path", "", "file containing a personal access token (\"-\" for stdin)")
	username := flags.String("username", "", "sign in with this username instead of a token")
	passwordFile := flags.String("password-file", "", "file containing the password for --username")
	configPath := flags.String("config", "", "path to a YAML config file (or "+config.EnvConfigPath+")")
	logLevel := flags.String("log-level", "", "log level: debug, info, warn, error")
	showVersion := flags.Bool("version", false, "print version information and exit")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Printf("memobridge %s\n", version.Info())
		return nil
	}

	fileConfig, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Precedence: flag, then environment, then config file.
	if *host == "" {
		*host = os.Getenv(envHost)
	}
	if *host == "" {
		*host = fileConfig.Host
	}
	if *host == "" {
		return fmt.Errorf("no server host: set --host, %s, or host in the config file", envHost)
	}
	if *tokenPath == "" {
		*tokenPath = fileConfig.TokenPath
	}
	if *username == "" {
		*username = fileConfig.Username
	}
	if *passwordFile == "" {
		*passwordFile = fileConfig.PasswordFile
	}
	if *logLevel == "" {
		*logLevel = fileConfig.LogLevel
	}

	logger, err := newLogger(*logLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := openSession(ctx, *host, *tokenPath, *username, *passwordFile, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	// The one fatal check: the credential must resolve to a user before
	// a single tool call is served.
	user, err := session.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("startup identity check failed: %w", err)
	}
	logger.Info("connected to memos server",
		"host", *host,
		"user", user.Name,
		"username", user.Username,
		"role", user.Role)

	server := mcp.NewServer(session, logger)
	if err := server.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newLogger builds the process logger: structured JSON on stderr, so
// stdout stays reserved for the MCP protocol stream.
func newLogger(level string) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "", "info":
		slogLevel = slog.LevelInfo
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})), nil
}

// openSession resolves the credential and opens the session that will
// back every tool call. Token and username modes are mutually
// exclusive; the MEMOS_TOKEN environment variable acts as an inline
// token source and is cleared from the process environment once
// captured.
func openSession(ctx context.Context, host, tokenPath, username, passwordFile string, logger *slog.Logger) (memos.Session, error) {
	client, err := memos.NewClient(memos.ClientConfig{Host: host, Logger: logger})
	if err != nil {
		return nil, err
	}

	token, err := resolveToken(tokenPath)
	if err != nil {
		return nil, err
	}

	if token != nil {
		if username != "" {
			token.Close()
			return nil, fmt.Errorf("--token-path and --username are mutually exclusive")
		}
		return client.SessionFromToken(token), nil
	}

	if username == "" {
		return nil, fmt.Errorf("no credential: set --token-path, %s, or --username", envToken)
	}

	password, err := resolvePassword(username, passwordFile)
	if err != nil {
		return nil, err
	}
	defer password.Close()

	// Sign-in needs a transport before there is a session; the
	// bootstrap session carries no token and is only used for this
	// one unauthenticated exchange.
	bootstrap := client.SessionFromToken(nil)
	defer bootstrap.Close()

	session, err := bootstrap.SignIn(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// resolveToken loads the personal access token from the given path, or
// from MEMOS_TOKEN when no path is set. Returns nil when neither source
// is present.
func resolveToken(tokenPath string) (*secret.Buffer, error) {
	if tokenPath != "" {
		token, err := secret.ReadFromPath(tokenPath)
		if err != nil {
			return nil, fmt.Errorf("reading token: %w", err)
		}
		return token, nil
	}

	if value, ok := os.LookupEnv(envToken); ok && value != "" {
		token, err := secret.NewFromString(value)
		if err != nil {
			return nil, err
		}
		os.Unsetenv(envToken)
		return token, nil
	}

	return nil, nil
}

// resolvePassword reads the password from the given file, or prompts
// on the controlling terminal when no file is set. The prompt goes to
// stderr: stdout belongs to the protocol stream.
func resolvePassword(username, passwordFile string) (*secret.Buffer, error) {
	if passwordFile != "" {
		password, err := secret.ReadFromPath(passwordFile)
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		return password, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("no password source: stdin is not a terminal, set --password-file")
	}

	fmt.Fprintf(os.Stderr, "password for %s: ", username)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return secret.NewFromBytes(raw)
}
