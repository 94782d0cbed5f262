// Package coordinator elects a single sync leader among all agent processes
// sharing one local store.
//
// The election runs over a shared coordination directory: the current leader
// rewrites a claim file on every heartbeat, every process watches the
// directory (fsnotify, with a polling ticker as the slow path) and takes
// over when the claim goes stale for longer than the leader timeout. Ties
// between simultaneous claimants are broken deterministically by the lowest
// session id. A second file in the same directory carries sync-completion
// broadcasts.
//
// When the directory cannot be established at all the coordinator fails
// open: the process considers itself sole leader permanently, so a
// single-process user is never starved of sync by missing coordination
// infrastructure.
package coordinator

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/brickfolio/localsync/internal/config"
	"github.com/brickfolio/localsync/internal/logger"
)

const (
	claimFileName     = "leader.json"
	broadcastFileName = "syncstate.json"
)

// claim is the leader's heartbeat record.
type claim struct {
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}

// broadcast is one sync-completion announcement.
type broadcast struct {
	Nonce     string    `json:"nonce"`
	SessionID string    `json:"session_id"`
	Success   bool      `json:"success"`
	At        time.Time `json:"at"`
}

// FileCoordinator is the directory-backed [Coordinator] implementation.
type FileCoordinator struct {
	cfg       config.AgentCoordinator
	logger    *logger.Logger
	sessionID string

	mu           sync.Mutex
	leader       bool
	failOpen     bool
	closed       bool
	lastNonce    string
	nextListener int
	leaderSubs   map[int]func(bool)
	syncSubs     map[int]func(bool)

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// New constructs a FileCoordinator and starts its election loop. The first
// election completes within one heartbeat interval; if the coordination
// directory cannot be established the coordinator fails open and reports
// this process as sole leader.
func New(cfg config.AgentCoordinator, log *logger.Logger) *FileCoordinator {
	c := &FileCoordinator{
		cfg:        cfg,
		logger:     log,
		sessionID:  uuid.NewString(),
		leaderSubs: make(map[int]func(bool)),
		syncSubs:   make(map[int]func(bool)),
		done:       make(chan struct{}),
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		log.Warn().
			Err(err).
			Str("func", "coordinator.New").
			Str("dir", cfg.Dir).
			Msg("coordination dir unavailable, failing open as sole leader")
		c.failOpen = true
		c.leader = true
		return c
	}

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if addErr := watcher.Add(cfg.Dir); addErr != nil {
			watcher.Close()
			watcher = nil
		}
	} else {
		watcher = nil
	}
	if watcher == nil {
		// the polling ticker still drives the election, only with
		// heartbeat-interval latency for broadcasts
		log.Warn().
			Str("func", "coordinator.New").
			Str("dir", cfg.Dir).
			Msg("fsnotify unavailable, falling back to polling only")
	}
	c.watcher = watcher

	c.wg.Add(1)
	go c.run()

	return c
}

// SessionID returns this process's election identity.
func (c *FileCoordinator) SessionID() string {
	return c.sessionID
}

// ShouldSync implements [Coordinator].
func (c *FileCoordinator) ShouldSync() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.leader
}

// OnLeaderChange implements [Coordinator].
func (c *FileCoordinator) OnLeaderChange(fn func(bool)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextListener
	c.nextListener++
	c.leaderSubs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.leaderSubs, id)
	}
}

// OnSyncComplete implements [Coordinator].
func (c *FileCoordinator) OnSyncComplete(fn func(bool)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextListener
	c.nextListener++
	c.syncSubs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.syncSubs, id)
	}
}

// NotifySyncComplete implements [Coordinator]. The broadcast is a best
// effort: a failed write only delays sibling cache refreshes until their
// next own sync.
func (c *FileCoordinator) NotifySyncComplete(success bool) {
	if c.isFailOpen() {
		return
	}

	b := broadcast{
		Nonce:     uuid.NewString(),
		SessionID: c.sessionID,
		Success:   success,
		At:        time.Now(),
	}

	c.mu.Lock()
	c.lastNonce = b.Nonce // never re-deliver our own broadcast to ourselves
	c.mu.Unlock()

	if err := writeJSONFile(filepath.Join(c.cfg.Dir, broadcastFileName), b); err != nil {
		c.logger.Warn().
			Err(err).
			Str("func", "FileCoordinator.NotifySyncComplete").
			Msg("failed to write sync broadcast")
	}
}

// Close implements [Coordinator].
func (c *FileCoordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	wasLeader := c.leader
	c.leader = false
	failOpen := c.failOpen
	c.mu.Unlock()

	if failOpen {
		return nil
	}

	close(c.done)
	c.wg.Wait()

	if c.watcher != nil {
		c.watcher.Close()
	}

	// release the claim so a sibling takes over without waiting for the
	// stale timeout
	if wasLeader {
		if err := os.Remove(filepath.Join(c.cfg.Dir, claimFileName)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	return nil
}

func (c *FileCoordinator) isFailOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failOpen
}

func (c *FileCoordinator) run() {
	defer c.wg.Done()

	// claim eagerly so a lone process is leading before its first tick
	c.electionTick()
	c.checkBroadcast()

	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	var errs <-chan error
	if c.watcher != nil {
		events = c.watcher.Events
		errs = c.watcher.Errors
	}

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.electionTick()
			c.checkBroadcast()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Base(ev.Name) == broadcastFileName {
				c.checkBroadcast()
			}
			if filepath.Base(ev.Name) == claimFileName {
				c.electionTick()
			}
		case err, ok := <-errs:
			// both watcher channels must be drained or the watcher's
			// sender goroutine blocks and event delivery stalls
			if !ok {
				errs = nil
				continue
			}
			c.logger.Warn().
				Err(err).
				Str("func", "FileCoordinator.run").
				Msg("directory watcher error")
		}
	}
}

// electionTick advances the heartbeat-and-claim protocol one step:
// refresh our claim while leading, take over a stale or absent claim, and
// resolve simultaneous claims by the lowest session id.
func (c *FileCoordinator) electionTick() {
	claimPath := filepath.Join(c.cfg.Dir, claimFileName)

	current, err := readClaim(claimPath)
	now := time.Now()

	fresh := err == nil && now.Sub(current.At) < c.cfg.LeaderTimeout

	var wantLeader bool
	switch {
	case !fresh:
		// no live claim observed within the timeout window: claim it
		wantLeader = true
	case current.SessionID == c.sessionID:
		wantLeader = true
	default:
		// live claim by a sibling; if we are currently leading this is a
		// split claim, resolved deterministically in favour of the lowest
		// session id
		wantLeader = c.ShouldSync() && c.sessionID < current.SessionID
	}

	if wantLeader {
		if err := writeJSONFile(claimPath, claim{SessionID: c.sessionID, At: now}); err != nil {
			c.logger.Warn().
				Err(err).
				Str("func", "FileCoordinator.electionTick").
				Msg("failed to write leader claim")
			wantLeader = c.ShouldSync() // keep previous state on write failure
		} else {
			// two processes can observe the same stale claim and both
			// write; only the one whose write survives may lead
			wantLeader = c.claimWonByUs(claimPath)
		}
	}

	c.setLeader(wantLeader)
}

// claimWonByUs re-reads the claim file after our own write and reports
// whether the surviving claim is ours. A simultaneous claimant whose write
// landed after ours holds the file, and this process must stand down
// immediately rather than lead until the next tick.
func (c *FileCoordinator) claimWonByUs(claimPath string) bool {
	confirmed, err := readClaim(claimPath)
	if err != nil {
		// our write just succeeded, a read failure is transient; keep the
		// claim and let the next tick resolve it
		return true
	}
	return confirmed.SessionID == c.sessionID
}

func (c *FileCoordinator) setLeader(leader bool) {
	c.mu.Lock()
	if c.closed || c.leader == leader {
		c.mu.Unlock()
		return
	}
	c.leader = leader
	subs := make([]func(bool), 0, len(c.leaderSubs))
	for _, fn := range c.leaderSubs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	c.logger.Info().
		Str("func", "FileCoordinator.setLeader").
		Str("session_id", c.sessionID).
		Bool("leader", leader).
		Msg("leadership changed")

	for _, fn := range subs {
		fn(leader)
	}
}

func (c *FileCoordinator) checkBroadcast() {
	b, err := readBroadcast(filepath.Join(c.cfg.Dir, broadcastFileName))
	if err != nil {
		return
	}

	c.mu.Lock()
	if c.closed || b.Nonce == c.lastNonce || b.SessionID == c.sessionID {
		c.mu.Unlock()
		return
	}
	c.lastNonce = b.Nonce
	subs := make([]func(bool), 0, len(c.syncSubs))
	for _, fn := range c.syncSubs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(b.Success)
	}
}

func readClaim(path string) (claim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return claim{}, err
	}

	var cl claim
	if err = json.Unmarshal(data, &cl); err != nil {
		return claim{}, err
	}
	return cl, nil
}

func readBroadcast(path string) (broadcast, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return broadcast{}, err
	}

	var b broadcast
	if err = json.Unmarshal(data, &b); err != nil {
		return broadcast{}, err
	}
	return b, nil
}

// writeJSONFile writes through a temp file and rename so concurrent readers
// never observe a partial document.
func writeJSONFile(path string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".coord-*")
	if err != nil {
		return err
	}

	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
