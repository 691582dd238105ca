package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/webpack4r/webpack4r/internal/cache"
	"github.com/webpack4r/webpack4r/internal/config"
	"github.com/webpack4r/webpack4r/internal/utils"
)

// CommandError reports a bundler command that exited non-zero
type CommandError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed with exit code %d: %v", e.Command, e.ExitCode, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Options contains runner dependencies
type Options struct {
	// Store gates builds on watched-file digests; nil disables the gate
	Store  *cache.Store
	Logger *utils.Logger
	Stdout io.Writer
	Stderr io.Writer
	// Env entries appended to the inherited environment, KEY=VALUE form
	Env []string
}

// Runner executes a configuration's build and install commands in its
// resolved base path.
type Runner struct {
	store  *cache.Store
	log    *utils.Logger
	stdout io.Writer
	stderr io.Writer
	env    []string
}

// New creates a runner with the given options
func New(opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = utils.NewNopLogger()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Runner{
		store:  opts.Store,
		log:    log.WithComponent("runner"),
		stdout: stdout,
		stderr: stderr,
		env:    opts.Env,
	}
}

// Stale reports whether a site's watched files changed since its last
// recorded build. Without a digest store every build is stale.
func (r *Runner) Stale(cfg *config.Configuration) (bool, error) {
	if r.store == nil {
		return true, nil
	}

	current, err := cache.WatchedDigest(cfg.ResolvedWatchedPaths())
	if err != nil {
		return false, err
	}

	recorded, err := r.store.Digest(cfg.ID())
	if err != nil {
		if errors.Is(err, cache.ErrDigestMiss) {
			return true, nil
		}
		return false, err
	}
	return recorded != current, nil
}

// Build runs the site's build command. Unless forced, a site whose
// watched files are unchanged since the last recorded build is skipped.
// After a successful build the current digest is recorded.
func (r *Runner) Build(ctx context.Context, cfg *config.Configuration, force bool) error {
	log := r.log.WithSite(cfg.ID())

	if !force {
		stale, err := r.Stale(cfg)
		if err != nil {
			return err
		}
		if !stale {
			log.Info().Msg("Watched files unchanged, skipping build")
			return nil
		}
	}

	log.Info().Str("command", cfg.BuildCommand()).Msg("Building")
	if err := r.run(ctx, cfg, cfg.BuildCommand()); err != nil {
		return err
	}

	if r.store != nil {
		digest, err := cache.WatchedDigest(cfg.ResolvedWatchedPaths())
		if err != nil {
			return err
		}
		if err := r.store.SetDigest(cfg.ID(), digest); err != nil {
			return err
		}
	}
	return nil
}

// Install runs the site's dependency install command
func (r *Runner) Install(ctx context.Context, cfg *config.Configuration) error {
	r.log.WithSite(cfg.ID()).Info().Str("command", cfg.InstallCommand()).Msg("Installing dependencies")
	return r.run(ctx, cfg, cfg.InstallCommand())
}

func (r *Runner) run(ctx context.Context, cfg *config.Configuration, command string) error {
	argv := splitCommand(command)
	if len(argv) == 0 {
		return fmt.Errorf("empty command for site %q", cfg.ID())
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = cfg.ResolvedBasePath()
	cmd.Env = append(os.Environ(), r.env...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &CommandError{Command: command, ExitCode: exitCode, Err: err}
	}
	return nil
}

// splitCommand splits a configured command string on whitespace. Command
// strings are plain argv lists, not shell syntax.
func splitCommand(command string) []string {
	return strings.Fields(command)
}
