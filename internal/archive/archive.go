// Package archive reads exported match files and the team roster from the
// data directory, optionally keeping it in sync with a git remote.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
)

// RosterFile is the default name of the roster file in the data directory.
const RosterFile = "teams.json"

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRepoURL sets the git remote the data directory is cloned from. Without
// one the directory is used as is.
func WithRepoURL(url string) ClientOption {
	return func(c *Client) {
		c.repoURL = url
	}
}

// WithLogger sets the logger for progress output.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// WithRosterPath sets the roster file. It defaults to RosterFile inside the
// data directory.
func WithRosterPath(path string) ClientOption {
	return func(c *Client) {
		c.rosterPath = path
	}
}

// Client reads the data directory.
type Client struct {
	dir        string
	repoURL    string
	rosterPath string
	log        *slog.Logger
}

// NewClient creates a new data directory client.
func NewClient(dir string, opts ...ClientOption) *Client {
	c := &Client{
		dir:        dir,
		rosterPath: filepath.Join(dir, RosterFile),
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Dir returns the data directory.
func (c *Client) Dir() string {
	return c.dir
}

// RosterPath returns the roster file.
func (c *Client) RosterPath() string {
	return c.rosterPath
}

// Sync clones or updates the data directory from its git remote. It does
// nothing if no remote is configured.
func (c *Client) Sync(ctx context.Context) error {
	if c.repoURL == "" {
		return nil
	}
	if err := c.pull(ctx); err != nil {
		return fmt.Errorf("sync data directory: %w", err)
	}
	return nil
}

// MatchFiles returns the paths of every match file in the data directory,
// ordered by name. The roster file is not a match file.
func (c *Client) MatchFiles() ([]string, error) {
	paths, err := FindMatchFiles(c.dir)
	if err != nil {
		return nil, fmt.Errorf("find match files: %w", err)
	}
	roster, _ := filepath.Abs(c.rosterPath)
	return slices.DeleteFunc(paths, func(p string) bool {
		abs, _ := filepath.Abs(p)
		return abs == roster
	}), nil
}

// FindMatchFiles returns the paths of every .json file directly inside dir,
// ordered by name. A missing directory has no match files.
func FindMatchFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

// MatchID returns the match id of a match file: its name without .json.
func MatchID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".json")
}

// pull clones or updates the data directory.
func (c *Client) pull(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(c.dir), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var progress io.Writer
	if c.log.Enabled(ctx, slog.LevelDebug) {
		progress = os.Stderr
	}

	if _, err := os.Stat(filepath.Join(c.dir, ".git")); err == nil {
		c.log.Info("Updating data directory", "dir", c.dir)
		r, err := git.PlainOpen(c.dir)
		if err != nil {
			return fmt.Errorf("open repo: %w", err)
		}
		w, err := r.Worktree()
		if err != nil {
			return fmt.Errorf("get worktree: %w", err)
		}
		if err := w.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
			return fmt.Errorf("reset worktree: %w", err)
		}
		if err := w.PullContext(ctx, &git.PullOptions{Progress: progress}); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("pull: %w", err)
		}
		return nil
	}

	c.log.Info("Cloning data directory", "url", c.repoURL, "dir", c.dir)
	if _, err := git.PlainCloneContext(ctx, c.dir, false, &git.CloneOptions{
		URL:          c.repoURL,
		Depth:        1,
		SingleBranch: true,
		Progress:     progress,
	}); err != nil {
		return fmt.Errorf("clone: %w", err)
	}
	return nil
}
