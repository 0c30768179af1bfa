// Package ingest feeds match files through the match assembler into the
// stores, folding each match into its players' lifetime stats.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Aezurly/Lol-Metrics/internal/aggregate"
	"github.com/Aezurly/Lol-Metrics/internal/archive"
	"github.com/Aezurly/Lol-Metrics/internal/lol"
	"github.com/Aezurly/Lol-Metrics/internal/store"
)

// A Source lists match files and locates the roster.
type Source interface {
	MatchFiles() ([]string, error)
	RosterPath() string
}

// A Persister durably stores ingested data.
type Persister interface {
	Save(ctx context.Context, matches []*lol.Match, players []*lol.Player) error
	ReplaceTeams(ctx context.Context, teams []*lol.Team) error
	Clear(ctx context.Context) error
	ListMatches(ctx context.Context) ([]*lol.Match, error)
	ListPlayers(ctx context.Context) ([]*lol.Player, error)
	ListTeams(ctx context.Context) ([]*lol.Team, error)
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithLogger sets the logger for progress and diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(i *Ingester) {
		i.log = l
	}
}

// WithPersister persists everything ingested.
func WithPersister(p Persister) Option {
	return func(i *Ingester) {
		i.db = p
	}
}

// WithConcurrency sets how many match files are read at once.
func WithConcurrency(n int) Option {
	return func(i *Ingester) {
		i.workers = max(n, 1)
	}
}

// An Ingester loads match files into a store. Files are read concurrently
// but folded into players one at a time, and only one ingestion runs at once.
type Ingester struct {
	src     Source
	store   *store.Store
	db      Persister
	log     *slog.Logger
	workers int

	mu     sync.Mutex // Serializes ingestion. Protects roster.
	roster *archive.RosterData
}

// New returns an Ingester that loads files from src into s.
func New(src Source, s *store.Store, opts ...Option) *Ingester {
	i := &Ingester{
		src:     src,
		store:   s,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Restore loads previously persisted matches, players, and teams into the
// store. It does nothing without a persister.
func (i *Ingester) Restore(ctx context.Context) error {
	if i.db == nil {
		return nil
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	matches, err := i.db.ListMatches(ctx)
	if err != nil {
		return fmt.Errorf("restore matches: %w", err)
	}
	players, err := i.db.ListPlayers(ctx)
	if err != nil {
		return fmt.Errorf("restore players: %w", err)
	}
	teams, err := i.db.ListTeams(ctx)
	if err != nil {
		return fmt.Errorf("restore teams: %w", err)
	}

	for _, m := range matches {
		i.store.PutMatch(m)
	}
	for _, p := range players {
		i.store.PutPlayer(p)
	}
	for _, t := range teams {
		i.store.PutTeam(t)
	}
	i.log.Info("Restored persisted data", "matches", len(matches), "players", len(players), "teams", len(teams))
	return nil
}

// LoadNewMatches ingests every match file that hasn't been processed yet and
// marks the store initialized. It returns the number of matches ingested.
func (i *Ingester) LoadNewMatches(ctx context.Context) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.store.SetLoading(true)
	defer i.store.SetLoading(false)

	if i.roster == nil {
		if err := i.loadRoster(); err != nil {
			return 0, err
		}
	}
	return i.loadNewMatches(ctx)
}

// ReloadTeams re-reads the roster, reassigns every player to a team, and
// resolves every match's winner again.
func (i *Ingester) ReloadTeams(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.store.SetLoading(true)
	defer i.store.SetLoading(false)

	if err := i.loadRoster(); err != nil {
		return err
	}

	var changed []*lol.Player
	for _, p := range i.store.Players() {
		before := p.Team()
		p.TeamID = i.teamFor(p.Name)
		if p.Team() == before {
			continue
		}
		i.store.PutPlayer(p)
		changed = append(changed, p)
	}

	matches := i.resolve(nil)
	teams := i.rebuildTeams()
	i.persist(ctx, matches, changed, teams)
	i.store.SetInitialized()
	return nil
}

// ReloadAll forgets everything, persisted data included, and ingests every
// match file again.
func (i *Ingester) ReloadAll(ctx context.Context) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.store.SetLoading(true)
	defer i.store.SetLoading(false)

	i.store.Reset()
	if i.db != nil {
		if err := i.db.Clear(ctx); err != nil {
			return 0, fmt.Errorf("clear persisted data: %w", err)
		}
	}
	if err := i.loadRoster(); err != nil {
		return 0, err
	}
	return i.loadNewMatches(ctx)
}

func (i *Ingester) loadNewMatches(ctx context.Context) (int, error) {
	files, err := i.src.MatchFiles()
	if err != nil {
		return 0, err
	}
	files = slices.DeleteFunc(files, func(path string) bool {
		return i.store.IsProcessed(archive.MatchID(path))
	})

	extracted, err := i.extract(ctx, files)
	if err != nil {
		return 0, err
	}

	touched := map[string]bool{}
	for _, mf := range extracted {
		if mf.Empty() {
			i.log.Warn("Match file has no participants", "match", mf.ID())
		}
		m := mf.Transform()
		i.store.PutMatch(m)
		for _, pid := range m.PlayerIDs {
			p, ok := i.store.Player(pid)
			if !ok {
				p = aggregate.NewPlayer(pid, m.Stats[pid])
				p.TeamID = i.teamFor(p.Name)
			}
			if aggregate.Apply(p, m) {
				i.store.PutPlayer(p)
				touched[pid] = true
			}
		}
		i.log.Debug("Ingested match", "match", m.ID, "players", len(m.PlayerIDs))
	}

	fresh := map[string]bool{}
	for _, mf := range extracted {
		fresh[mf.ID()] = true
	}
	matches := i.resolve(fresh)
	for _, m := range matches {
		delete(fresh, m.ID)
	}
	for id := range fresh {
		if m, ok := i.store.Match(id); ok {
			matches = append(matches, m)
		}
	}
	players := make([]*lol.Player, 0, len(touched))
	for pid := range touched {
		if p, ok := i.store.Player(pid); ok {
			players = append(players, p)
		}
	}
	teams := i.rebuildTeams()
	i.persist(ctx, matches, players, teams)

	i.store.SetInitialized()
	if len(extracted) > 0 {
		i.log.Info("Ingested new matches", "matches", len(extracted), "players", len(touched))
	}
	return len(extracted), nil
}

// extract reads match files concurrently. Unreadable files are logged and
// skipped. Results keep the order of files.
func (i *Ingester) extract(ctx context.Context, files []string) ([]*archive.MatchFile, error) {
	results := make([]*archive.MatchFile, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)
	for n, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mf := &archive.MatchFile{}
			if err := mf.Extract(path); err != nil {
				i.log.Warn("Cannot read match file", "file", path, "err", err)
				return nil
			}
			results[n] = mf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("read match files: %w", err)
	}

	return slices.DeleteFunc(results, func(mf *archive.MatchFile) bool { return mf == nil }), nil
}

// loadRoster reads the roster file. A missing roster means no teams.
func (i *Ingester) loadRoster() error {
	var r archive.Roster
	if err := r.Extract(i.src.RosterPath()); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read roster: %w", err)
		}
		i.log.Warn("No roster file, players won't be assigned to teams", "file", i.src.RosterPath())
	}
	d := r.Transform()
	for _, id := range d.Duplicates {
		i.log.Warn("Team declared more than once in roster, merging into the first", "file", i.src.RosterPath(), "team", id)
	}
	i.roster = &d
	return nil
}

func (i *Ingester) teamFor(name string) *int {
	if i.roster == nil {
		return nil
	}
	id, ok := i.roster.TeamIDForName(name)
	if !ok {
		return nil
	}
	return &id
}

// resolve resolves the winner of every match against current team
// membership. It returns the matches whose winner or teams changed. Matches
// that are fresh or changed but still have no winning team are logged.
func (i *Ingester) resolve(fresh map[string]bool) []*lol.Match {
	teams := lol.TeamMap{}
	for _, p := range i.store.Players() {
		if p.TeamID != nil {
			teams[p.UID] = *p.TeamID
		}
	}

	var changed []*lol.Match
	for _, m := range i.store.Matches() {
		before := m.Clone()
		ok := lol.ResolveVictory(m, teams)
		same := m.VictoriousTeamID == before.VictoriousTeamID &&
			m.VictoriousTeamSide == before.VictoriousTeamSide &&
			slices.Equal(m.TeamIDs, before.TeamIDs)
		if !ok && (fresh[m.ID] || !same) {
			i.log.Warn("Cannot resolve winning team", "match", m.ID, "side", m.VictoriousTeamSide)
		}
		if same {
			continue
		}
		i.store.ResolveMatch(m.ID, m.VictoriousTeamSide, m.VictoriousTeamID, m.TeamIDs)
		changed = append(changed, m)
	}
	return changed
}

// rebuildTeams replaces the store's teams with the roster's, recomputing
// their members and matches.
func (i *Ingester) rebuildTeams() []*lol.Team {
	if i.roster == nil {
		return i.store.Teams()
	}

	members := map[int][]string{}
	for _, p := range i.store.Players() {
		if p.TeamID != nil {
			members[*p.TeamID] = append(members[*p.TeamID], p.UID)
		}
	}
	played := map[int][]string{}
	for _, m := range i.store.Matches() {
		for _, id := range m.TeamIDs {
			played[id] = append(played[id], m.ID)
		}
	}

	i.store.ClearTeams()
	teams := make([]*lol.Team, 0, len(i.roster.Teams))
	for _, rt := range i.roster.Teams {
		t := rt.Clone()
		t.PlayersIDs = append(t.PlayersIDs, members[t.ID]...)
		t.MatchIDs = append(t.MatchIDs, played[t.ID]...)
		i.store.PutTeam(t)
		teams = append(teams, t)
	}
	return teams
}

// persist writes ingested data to the persister. Failures are logged, not
// returned: the store already holds the data and stays usable.
func (i *Ingester) persist(ctx context.Context, matches []*lol.Match, players []*lol.Player, teams []*lol.Team) {
	if i.db == nil {
		return
	}
	if err := i.db.Save(ctx, matches, players); err != nil {
		i.log.Error("Cannot persist matches and players", "matches", len(matches), "players", len(players), "err", err)
	}
	if err := i.db.ReplaceTeams(ctx, teams); err != nil {
		i.log.Error("Cannot persist teams", "teams", len(teams), "err", err)
	}
}
