// Package pipeline runs one generation pass: it renders the interface header
// and implementation, builds the allowlist, and commits every target
// together so that a failed pass leaves no partial output behind.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"tpgen/internal/backend/cgen"
	"tpgen/internal/bindgen"
	"tpgen/internal/outfile"
	"tpgen/internal/schema"
	"tpgen/internal/stamp"
	"tpgen/internal/trace"
)

// Request configures one generation pass.
type Request struct {
	Providers []schema.Provider

	HeaderPath string
	ImplPath   string
	// HeaderInclude is the path written into the implementation's first
	// #include. Defaults to HeaderPath.
	HeaderInclude    string
	TracepointHeader string

	// AllowlistPath is optional; empty skips the allowlist file.
	AllowlistPath   string
	AllowlistFormat bindgen.Format

	// StampPath is optional; empty disables skipping unchanged passes.
	StampPath string
	Force     bool

	Sink ProgressSink
}

// Result describes a finished pass.
type Result struct {
	Functions []string
	Written   []string
	Skipped   bool
	Timings   Timings
}

type target struct {
	path    string
	content []byte
}

// Generate runs the pass described by req.
func Generate(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.New("missing generate request")
	}
	reqCopy := *req
	req = &reqCopy

	if req.HeaderPath == "" || req.ImplPath == "" {
		return nil, errors.New("header and implementation paths are required")
	}
	if req.TracepointHeader == "" {
		return nil, errors.New("tracepoint provider header is required")
	}
	if req.HeaderInclude == "" {
		req.HeaderInclude = req.HeaderPath
	}
	if err := checkDistinct(req); err != nil {
		return nil, err
	}
	if req.AllowlistPath != "" {
		format, err := bindgen.ParseFormat(string(req.AllowlistFormat))
		if err != nil {
			return nil, err
		}
		req.AllowlistFormat = format
	} else {
		req.AllowlistFormat = ""
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "generate", trace.CurrentSpan(ctx).SpanID)
	ctx = trace.WithSpan(ctx, span)

	result := &Result{}
	err := run(ctx, req, result)
	switch {
	case err != nil:
		span.WithExtra("error", err.Error()).End("failed")
	case result.Skipped:
		span.End("up to date")
	default:
		span.WithExtra("written", fmt.Sprint(len(result.Written))).End("")
	}
	return result, err
}

func run(ctx context.Context, req *Request, result *Result) error {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	// render
	start := time.Now()
	emitStage(req.Sink, StageRender, StatusWorking, nil, &result.Timings)
	header, impl, err := render(ctx, req)
	result.Timings.Set(StageRender, time.Since(start))
	if err != nil {
		emitStage(req.Sink, StageRender, StatusError, err, &result.Timings)
		return err
	}
	emitStage(req.Sink, StageRender, StatusDone, nil, &result.Timings)
	targets := []target{header, impl}

	// allowlist
	start = time.Now()
	emitStage(req.Sink, StageAllowlist, StatusWorking, nil, &result.Timings)
	builder := cgen.AllowlistInterface(ctx, req.Providers, nil)
	result.Functions = builder.Functions()
	if req.AllowlistPath != "" {
		var buf bytes.Buffer
		if err = builder.Render(&buf, req.AllowlistFormat); err != nil {
			result.Timings.Set(StageAllowlist, time.Since(start))
			emitStage(req.Sink, StageAllowlist, StatusError, err, &result.Timings)
			return err
		}
		targets = append(targets, target{path: req.AllowlistPath, content: buf.Bytes()})
	}
	result.Timings.Set(StageAllowlist, time.Since(start))
	emitStage(req.Sink, StageAllowlist, StatusDone, nil, &result.Timings)

	want, err := stamp.New(cgen.Revision, schema.Fingerprint(req.Providers),
		req.HeaderInclude, req.TracepointHeader, string(req.AllowlistFormat), len(result.Functions))
	if err != nil {
		return err
	}
	for _, t := range targets {
		want.Add(t.path, t.content)
	}

	// commit
	start = time.Now()
	if !req.Force && req.StampPath != "" {
		fresh, stampErr := upToDate(req.StampPath, want)
		if stampErr != nil {
			// unreadable stamp only costs a rewrite
			trace.Point(tracer, trace.ScopeTarget, "stamp", stampErr.Error(), parent)
		}
		if fresh {
			result.Skipped = true
			result.Timings.Set(StageCommit, time.Since(start))
			emitStage(req.Sink, StageCommit, StatusSkipped, nil, &result.Timings)
			return nil
		}
	}

	emitStage(req.Sink, StageCommit, StatusWorking, nil, &result.Timings)
	var batch outfile.Batch
	for _, t := range targets {
		if err = batch.Stage(t.path, t.content); err != nil {
			err = errors.Join(err, batch.Abort())
			emit(req.Sink, t.path, StageCommit, StatusError, err)
			result.Timings.Set(StageCommit, time.Since(start))
			emitStage(req.Sink, StageCommit, StatusError, err, &result.Timings)
			return err
		}
	}
	if err = batch.Commit(); err != nil {
		result.Timings.Set(StageCommit, time.Since(start))
		emitStage(req.Sink, StageCommit, StatusError, err, &result.Timings)
		return err
	}
	for _, t := range targets {
		trace.Point(tracer, trace.ScopeTarget, "commit", t.path, parent)
		emit(req.Sink, t.path, StageCommit, StatusDone, nil)
		result.Written = append(result.Written, t.path)
	}
	if req.StampPath != "" {
		if err = stamp.Save(req.StampPath, want); err != nil {
			result.Timings.Set(StageCommit, time.Since(start))
			emitStage(req.Sink, StageCommit, StatusError, err, &result.Timings)
			return err
		}
	}
	result.Timings.Set(StageCommit, time.Since(start))
	emitStage(req.Sink, StageCommit, StatusDone, nil, &result.Timings)
	return nil
}

// render builds the header and implementation concurrently.
func render(ctx context.Context, req *Request) (header, impl target, err error) {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		sp := trace.Begin(tracer, trace.ScopeTarget, "render", parent)
		header = target{path: req.HeaderPath, content: []byte(cgen.RenderHeader(req.Providers))}
		sp.End(req.HeaderPath)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		sp := trace.Begin(tracer, trace.ScopeTarget, "render", parent)
		impl = target{path: req.ImplPath, content: []byte(cgen.RenderImpl(req.Providers, req.HeaderInclude, req.TracepointHeader))}
		sp.End(req.ImplPath)
		return nil
	})
	err = g.Wait()
	return header, impl, err
}

// checkDistinct rejects requests where two outputs would land on one file.
func checkDistinct(req *Request) error {
	seen := make(map[string]string, 4)
	for _, out := range []struct{ role, path string }{
		{"header", req.HeaderPath},
		{"implementation", req.ImplPath},
		{"allowlist", req.AllowlistPath},
		{"stamp", req.StampPath},
	} {
		if out.path == "" {
			continue
		}
		key := filepath.Clean(out.path)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("output paths collide: %s is both the %s and the %s", out.path, prev, out.role)
		}
		seen[key] = out.role
	}
	return nil
}

func upToDate(path string, want *stamp.Stamp) (bool, error) {
	prev, ok, err := stamp.Load(path)
	if err != nil || !ok {
		return false, err
	}
	if !prev.Matches(want) {
		return false, nil
	}
	for i := range prev.Targets {
		if prev.Targets[i].Digest != want.Targets[i].Digest {
			return false, nil
		}
	}
	return prev.OnDisk()
}
