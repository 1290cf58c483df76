// Package gate composes the session, rate-governance and audit subsystems
// behind the dispatch contract every transport consumes: admit the client
// through the sliding-window rate limiter, validate the session token, then
// execute the capability handler under the audit manager's policy gate.
//
// Sessions and audit envelopes open and close in lockstep: Open creates both
// or neither, Close revokes the session and seals the signed artifact. The
// transport layer maps the structured outcomes (ErrQuotaExceeded,
// ErrUnauthenticated, audit.ErrPolicyDenied) to its own status codes.
//
// # Usage
//
//	var cfg gate.Config
//	config.MustLoad(&cfg)
//
//	g, err := gate.New(cfg,
//	    gate.WithCapabilities("search", "catalog.browse", "cart.add", "checkout"),
//	    gate.WithLogger(log),
//	)
//	if err != nil {
//	    // wiring failed
//	}
//	defer g.Shutdown()
//
//	sess, err := g.Open(ctx, clientOrigin)
//
//	result, err := g.Execute(ctx, gate.ExecuteRequest{
//	    ClientKey:  clientOrigin,
//	    Token:      sess.Token,
//	    Capability: "search",
//	    Payload:    query,
//	}, func(ctx context.Context) (any, error) {
//	    return doSearch(ctx, query)
//	})
//
//	artifact, err := g.Close(ctx, sess.Token)
package gate
