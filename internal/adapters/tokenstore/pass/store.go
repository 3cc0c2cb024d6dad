package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/workai-app/workai-cli/internal/domain"
	"github.com/workai-app/workai-cli/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

const entryPrefix = "workai/tokens/"

type runFunc func(ctx context.Context, input string, args ...string) (stdout string, stderr string, err error)

// Store keeps tokens in the standard unix password manager, one entry
// per token kind under workai/tokens/.
type Store struct {
	run runFunc
}

var _ ports.TokenStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{run: runPassCommand}
}

func (s *Store) Set(ctx context.Context, kind domain.TokenKind, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if value == "" {
		return s.Delete(ctx, kind)
	}

	_, stderr, err := s.run(ctx, value+"\n", "insert", "-m", "-f", entryName(kind))
	if err != nil {
		return formatError("set", kind, err, stderr)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, kind domain.TokenKind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, "", "show", entryName(kind))
	if err != nil {
		if strings.Contains(stderr, "is not in the password store") {
			return "", fmt.Errorf("token %q: %w", kind, domain.ErrTokenNotFound)
		}
		return "", formatError("get", kind, err, stderr)
	}

	stdout = strings.TrimSuffix(stdout, "\n")
	stdout = strings.TrimSuffix(stdout, "\r")

	return stdout, nil
}

func (s *Store) Delete(ctx context.Context, kind domain.TokenKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, "", "rm", "-f", entryName(kind))
	if err != nil {
		if strings.Contains(stderr, "is not in the password store") {
			return nil
		}
		return formatError("delete", kind, err, stderr)
	}

	return nil
}

func entryName(kind domain.TokenKind) string {
	return entryPrefix + string(kind)
}

func runPassCommand(ctx context.Context, input string, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(op string, kind domain.TokenKind, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, kind, err)
	}

	return fmt.Errorf("pass %s %q: %w: %s", op, kind, err, stderr)
}
