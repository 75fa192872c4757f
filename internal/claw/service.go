package claw

import (
	"context"
	"os"
	"sync"

	"clawwatch/internal/agents"
	"clawwatch/internal/gateway"
	"clawwatch/internal/label"
	"clawwatch/internal/model"
)

// SessionService exposes the session lifecycle operations. The catalogs
// and indexes it mutates carry no locking of their own; the service
// enforces the single-writer-per-directory precondition with a mutex per
// session-storage root, so it is safe to call from a concurrent
// request-handling layer.
type SessionService struct {
	home     string // orchestrator home containing agents/<id>/sessions
	mainDir  string // main agent's sessions root (also holds settings.json)
	readOnly bool

	resolver *label.Resolver
	gw       Gateway
	hostname func() (string, error)

	logger Logger
	clock  Clock
	idgen  IDGenerator

	mu       sync.Mutex
	dirLocks map[string]*sync.Mutex
}

// Options configure a SessionService.
type Options struct {
	Home          string
	MainDir       string
	ReadOnly      bool
	MainAgentName string
	KnownAgents   []string
	Gateway       Gateway
	Hostname      func() (string, error) // defaults to os.Hostname
	Logger        Logger
	Clock         Clock
	IDGenerator   IDGenerator
}

// NewSessionService creates a fully wired service.
func NewSessionService(opts Options) *SessionService {
	if opts.Hostname == nil {
		opts.Hostname = os.Hostname
	}
	if opts.Logger == nil {
		opts.Logger = NewNopLogger()
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = UUIDGenerator{}
	}
	return &SessionService{
		home:     opts.Home,
		mainDir:  opts.MainDir,
		readOnly: opts.ReadOnly,
		resolver: label.NewResolver(opts.MainAgentName, opts.KnownAgents),
		gw:       opts.Gateway,
		hostname: opts.Hostname,
		logger:   opts.Logger,
		clock:    opts.Clock,
		idgen:    opts.IDGenerator,
	}
}

// dirs returns the session-storage roots, main always included.
func (s *SessionService) dirs() []agents.Dir {
	return agents.DiscoverDirs(s.home, s.mainDir)
}

// lockDir serializes mutations against one session-storage root. The
// returned unlock function must be deferred by the caller.
func (s *SessionService) lockDir(dir string) func() {
	s.mu.Lock()
	if s.dirLocks == nil {
		s.dirLocks = make(map[string]*sync.Mutex)
	}
	l, ok := s.dirLocks[dir]
	if !ok {
		l = &sync.Mutex{}
		s.dirLocks[dir] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// checkWritable rejects mutating operations in read-only mode.
func (s *SessionService) checkWritable() error {
	if s.readOnly {
		return ErrReadOnly
	}
	return nil
}

// cronNames fetches cron job names from the gateway, degrading to no
// names on any failure.
func (s *SessionService) cronNames(ctx context.Context) map[string]string {
	if s.gw == nil {
		return nil
	}
	names, err := s.gw.CronNames(ctx)
	if err != nil {
		s.logger.Debug("cron name lookup unavailable", "error", err)
		return nil
	}
	return names
}

// resolverWith returns the attribution resolver bound to the given cron
// name table.
func (s *SessionService) resolverWith(cronNames map[string]string) *label.Resolver {
	r := *s.resolver
	r.CronJobName = func(id string) (string, bool) {
		name, ok := cronNames[id]
		return name, ok
	}
	return &r
}

// gatewayNode builds the node entry for the local host.
func (s *SessionService) gatewayNode() model.Node {
	name := gateway.NormalizeNodeName(s.hostnameOrUnknown())
	return model.Node{
		ID:            "gateway",
		Name:          name,
		Value:         gateway.NodeValue(name),
		DisplayName:   name,
		IsGateway:     true,
		Connected:     true,
		Status:        "ok",
		StatusMessage: "Gateway running",
	}
}
