// Package normalize maps tool kinds to their output normalizers.
package normalize

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/errors"
	"github.com/felixgeelhaar/toolwire/internal/eval"
	"github.com/felixgeelhaar/toolwire/internal/log"
	"github.com/felixgeelhaar/toolwire/internal/lsp"
	"github.com/felixgeelhaar/toolwire/internal/metrics"
	"github.com/felixgeelhaar/toolwire/internal/toolschema"
	"github.com/felixgeelhaar/toolwire/internal/vcs"
)

// Canonical kinds.
const (
	KindTypeCheck        = "typecheck"
	KindLint             = "lint"
	KindTest             = "test"
	KindGitStatus        = "git-status"
	KindGitDiff          = "git-diff"
	KindGitLog           = "git-log"
	KindLSPDefinition    = "lsp-definition"
	KindLSPReferences    = "lsp-references"
	KindLSPHover         = "lsp-hover"
	KindLSPDocSymbols    = "lsp-document-symbols"
	KindLSPWorkspaceSyms = "lsp-workspace-symbols"
)

// Options carry the per-call inputs some normalizers need.
type Options struct {
	// LogSeparator splits git log fields; empty means "|".
	LogSeparator string
	// Symbol is the hovered symbol name reported in hover results.
	Symbol string
}

// Func turns raw tool output into a result. It never fails: unparsable
// input is reported through the result diagnostic.
type Func func(raw []byte, opts Options) envelope.Result

// Normalizer is a registered kind.
type Normalizer struct {
	Kind        string
	Description string
	Aliases     []string
	fn          Func
}

// Registry resolves kind names, aliases and catalog tool names to
// normalizers.
type Registry struct {
	normalizers map[string]*Normalizer
	aliases     map[string]string
	catalog     *toolschema.Catalog
	logger      *log.Logger
	metrics     *metrics.Metrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for per-run records.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithCatalog lets tool names from the catalog resolve to their normalizer.
func WithCatalog(c *toolschema.Catalog) Option {
	return func(r *Registry) { r.catalog = c }
}

// WithMetrics records every run. Without it nothing is recorded.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// New returns a registry holding every built-in normalizer.
func New(opts ...Option) *Registry {
	r := &Registry{
		normalizers: make(map[string]*Normalizer),
		aliases:     make(map[string]string),
		logger:      log.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	registerBuiltins(r)
	return r
}

func registerBuiltins(r *Registry) {
	r.Register(KindTypeCheck, "type checker JSON findings", func(raw []byte, _ Options) envelope.Result {
		return eval.NormalizeTypeCheck(raw)
	}, "types", "mypy", "pyright", "tsc")
	r.Register(KindLint, "linter 'path:line:col: CODE message' lines", func(raw []byte, _ Options) envelope.Result {
		return eval.NormalizeLint(raw)
	}, "ruff", "flake8")
	r.Register(KindTest, "test runner per-test lines and summary", func(raw []byte, _ Options) envelope.Result {
		return eval.NormalizeTestRun(raw)
	}, "tests", "pytest")
	r.Register(KindGitStatus, "git status --porcelain", func(raw []byte, _ Options) envelope.Result {
		return vcs.NormalizeStatus(raw)
	}, "status")
	r.Register(KindGitDiff, "git diff unified output", func(raw []byte, _ Options) envelope.Result {
		return vcs.NormalizeDiff(raw)
	}, "diff")
	r.Register(KindGitLog, "git log one commit per line", func(raw []byte, opts Options) envelope.Result {
		return vcs.NormalizeLog(raw, opts.LogSeparator)
	}, "log")
	r.Register(KindLSPDefinition, "textDocument/definition response", func(raw []byte, _ Options) envelope.Result {
		return lsp.NormalizeDefinition(raw)
	}, "definition")
	r.Register(KindLSPReferences, "textDocument/references response", func(raw []byte, _ Options) envelope.Result {
		return lsp.NormalizeReferences(raw)
	}, "references")
	r.Register(KindLSPHover, "textDocument/hover response", func(raw []byte, opts Options) envelope.Result {
		return lsp.NormalizeHover(raw, opts.Symbol)
	}, "hover")
	r.Register(KindLSPDocSymbols, "textDocument/documentSymbol response", func(raw []byte, _ Options) envelope.Result {
		return lsp.NormalizeDocumentSymbols(raw)
	}, "document-symbols", "outline")
	r.Register(KindLSPWorkspaceSyms, "workspace/symbol response", func(raw []byte, _ Options) envelope.Result {
		return lsp.NormalizeWorkspaceSymbols(raw)
	}, "workspace-symbols")
}

// Register adds or replaces a normalizer.
func (r *Registry) Register(kind, description string, fn Func, aliases ...string) {
	r.normalizers[kind] = &Normalizer{Kind: kind, Description: description, Aliases: aliases, fn: fn}
	for _, a := range aliases {
		r.aliases[a] = kind
	}
}

// Resolve returns the canonical kind for a kind name, an alias or a catalog
// tool name. Matching ignores case.
func (r *Registry) Resolve(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := r.normalizers[key]; ok {
		return key, nil
	}
	if kind, ok := r.aliases[key]; ok {
		return kind, nil
	}
	if r.catalog != nil {
		if tool, ok := r.catalog.Lookup(name); ok && tool.Normalizer != "" {
			if _, ok := r.normalizers[tool.Normalizer]; ok {
				return tool.Normalizer, nil
			}
		}
	}
	return "", errors.NewUnknownKindError(name, r.Kinds())
}

// Kinds returns the canonical kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.normalizers))
	for k := range r.normalizers {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Normalizers returns the registered normalizers sorted by kind.
func (r *Registry) Normalizers() []*Normalizer {
	out := make([]*Normalizer, 0, len(r.normalizers))
	for _, k := range r.Kinds() {
		out = append(out, r.normalizers[k])
	}
	return out
}

// Normalize runs the normalizer for name over raw. The only error is an
// unknown name; every input produces a result.
func (r *Registry) Normalize(ctx context.Context, name string, raw []byte, opts Options) (envelope.Result, error) {
	kind, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := r.normalizers[kind].fn(raw, opts)
	status := result.Header()
	if r.metrics != nil {
		r.metrics.ObserveNormalize(kind, len(raw), time.Since(start).Seconds(), status)
	}

	logger := r.logger.With(
		"kind", kind,
		"digest", envelope.ShortDigest(raw),
		"bytes", len(raw),
		"success", status.Success,
	)
	if status.HasDiagnostic() {
		logger.WarnContext(ctx, "normalizer diagnostic", "diagnostic", status.Diagnostic)
	} else {
		logger.DebugContext(ctx, "normalized", "summary", result.Summary())
	}
	return result, nil
}
