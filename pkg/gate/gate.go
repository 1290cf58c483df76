package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gatekit/gatekit/pkg/audit"
	"github.com/gatekit/gatekit/pkg/logger"
	"github.com/gatekit/gatekit/pkg/ratelimiter"
	"github.com/gatekit/gatekit/pkg/session"
)

// Gate composes the session, rate-governance and audit managers behind the
// dispatch contract: rate admission, then token validation, then the audited
// capability call. It is the single consumer of the three managers, so every
// session-bound call pays the same checks in the same order.
type Gate struct {
	sessions *session.Manager
	limiter  *ratelimiter.Window
	rlStore  *ratelimiter.MemoryStore
	auditor  *audit.Manager
	config   Config
	log      *slog.Logger
}

// Option is a functional option for configuring the Gate
type Option func(*options)

type options struct {
	log          *slog.Logger
	capabilities []string
	auditOpts    []audit.Option
}

// WithLogger sets the structured logger
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithCapabilities sets the capability set snapshotted into new sessions
func WithCapabilities(capabilities ...string) Option {
	return func(o *options) {
		o.capabilities = capabilities
	}
}

// WithAuditOptions forwards options to the underlying audit manager,
// e.g. audit.WithSigner for externally provisioned signing keys.
func WithAuditOptions(opts ...audit.Option) Option {
	return func(o *options) {
		o.auditOpts = append(o.auditOpts, opts...)
	}
}

// New wires up the three managers from one config.
func New(cfg Config, opts ...Option) (*Gate, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.New(logger.WithAttr(slog.String("service", "gatekit")))
	}

	rlStore := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(cfg.CleanupInterval))
	limiter, err := ratelimiter.NewWindow(rlStore, ratelimiter.Config{Window: cfg.RateWindow})
	if err != nil {
		rlStore.Close()
		return nil, err
	}

	sessions := session.New(
		session.WithTTL(cfg.SessionTTL),
		session.WithMaxSessionsPerOrigin(cfg.MaxSessionsPerOrigin),
		session.WithCleanupInterval(cfg.CleanupInterval),
		session.WithCapabilities(o.capabilities...),
	)

	var auditor *audit.Manager
	if cfg.AuditEnabled {
		auditOpts := append([]audit.Option{
			audit.WithLogger(o.log),
			audit.WithCleanupInterval(cfg.CleanupInterval),
		}, o.auditOpts...)

		auditor, err = audit.New(auditOpts...)
		if err != nil {
			rlStore.Close()
			_ = sessions.Close()
			return nil, err
		}
	}

	return &Gate{
		sessions: sessions,
		limiter:  limiter,
		rlStore:  rlStore,
		auditor:  auditor,
		config:   cfg,
		log:      o.log,
	}, nil
}

// ExecuteRequest identifies one inbound capability call.
type ExecuteRequest struct {
	// ClientKey is the rate-limiting identity, e.g. the network origin
	ClientKey string
	// Token is the session token presented by the caller
	Token string
	// Capability is the name of the operation being invoked
	Capability string
	// Payload is the request payload recorded in the Called event
	Payload any
}

// Open creates a session and, when auditing is enabled, its audit envelope in
// lockstep: the session is not considered open until both succeed.
func (g *Gate) Open(ctx context.Context, origin string) (*session.Session, error) {
	sess, err := g.sessions.Create(ctx, origin)
	if err != nil {
		if errors.Is(err, session.ErrTooManySessions) {
			return nil, fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
		}
		return nil, err
	}

	if g.auditor != nil {
		if _, err := g.auditor.StartSession(sess.Token, origin, sess.Capabilities, sess.ExpiresAt); err != nil {
			_ = g.sessions.End(ctx, sess.Token)
			return nil, err
		}
	}

	g.log.InfoContext(ctx, "session opened",
		logger.Origin(origin),
		slog.Time("expires_at", sess.ExpiresAt))

	return sess, nil
}

// Close ends a session and seals its audit artifact in lockstep. The sealed
// artifact is returned when auditing is enabled; a nil artifact with a nil
// error means auditing was off or the token never had audit state.
func (g *Gate) Close(ctx context.Context, token string) (*audit.Artifact, error) {
	if err := g.sessions.End(ctx, token); err != nil {
		return nil, err
	}

	if g.auditor == nil {
		return nil, nil
	}

	artifact, err := g.auditor.EndSession(token)
	if err != nil {
		if errors.Is(err, audit.ErrNoActiveSession) {
			return nil, nil
		}
		return nil, err
	}
	return artifact, nil
}

// Execute runs one capability call through the full dispatch chain:
// rate admission for the client key, session validation for the token, and,
// when auditing is enabled, the policy-gated audited call. Quota and
// authentication failures are detected and reported before the handler runs.
func (g *Gate) Execute(ctx context.Context, req ExecuteRequest, handler audit.Handler) (any, error) {
	result, err := g.limiter.Allow(ctx, req.ClientKey, g.config.RateLimit)
	if err != nil {
		return nil, err
	}
	if !result.Allowed {
		return nil, fmt.Errorf("%w: rate limit, retry in %s", ErrQuotaExceeded, result.RetryAfter())
	}

	sess, err := g.sessions.Validate(ctx, req.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if g.auditor == nil {
		return handler(ctx)
	}

	return g.auditor.Call(ctx, sess.Token, req.Capability, req.Payload, handler)
}

// Artifact exposes sealed audit artifacts for read-only reporting.
func (g *Gate) Artifact(token string) (*audit.Artifact, error) {
	if g.auditor == nil {
		return nil, audit.ErrArtifactNotFound
	}
	return g.auditor.GetArtifact(token)
}

// PublicKey returns the audit signer's public key, or nil when auditing is off.
func (g *Gate) PublicKey() []byte {
	if g.auditor == nil {
		return nil
	}
	return g.auditor.PublicKey()
}

// Shutdown stops the background sweeps of all composed managers.
func (g *Gate) Shutdown() error {
	g.rlStore.Close()
	err := g.sessions.Close()
	if g.auditor != nil {
		if aerr := g.auditor.Close(); err == nil {
			err = aerr
		}
	}
	return err
}
