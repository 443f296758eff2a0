package assembly

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"companionforge/internal/catalog"
	"companionforge/internal/content"
	"companionforge/internal/formid"
	"companionforge/internal/guardrail"
	"companionforge/internal/linker"
	"companionforge/internal/logging"
	"companionforge/internal/record"
)

// Phase names stamped into log lines.
const (
	PhaseResolve  = "resolve"
	PhaseBuild    = "build"
	PhaseLink     = "link"
	PhaseValidate = "validate"
)

// Options configures one build pass.
type Options struct {
	// Plugin is the package file name and identifier namespace.
	Plugin string
	// FirstFormID is the first local id handed out; zero means formid.FirstLocal.
	FirstFormID uint32
	Manifest    *content.Manifest
	Catalog     catalog.Catalog
	// Checks overrides guardrail.Default when non-nil.
	Checks []guardrail.Check
	Logger *slog.Logger
}

// Result is a sealed package and the records callers report on.
type Result struct {
	Package *record.Package
	Quest   *record.Quest
	Actor   *record.Actor
	// Omitted lists optional features skipped because the catalog lacks them.
	Omitted []string
	// Issued is the number of identifiers allocated.
	Issued int
	Report guardrail.Report
}

// Build assembles and validates a package. A guardrail violation is returned
// as the error and no result is produced.
func Build(ctx context.Context, opts Options) (*Result, error) {
	res, err := Assemble(ctx, opts)
	if err != nil {
		return nil, err
	}
	report, err := Validate(ctx, res, opts)
	if err != nil {
		return nil, err
	}
	if report.Violation != nil {
		return nil, report.Violation
	}
	return res, nil
}

// Validate runs the configured checks over an assembled result and records
// the report on it.
func Validate(ctx context.Context, res *Result, opts Options) (guardrail.Report, error) {
	checks := opts.Checks
	if checks == nil {
		checks = guardrail.Default()
	}
	logger := logging.WithContext(logging.WithPhase(ctx, PhaseValidate), logging.NewComponentLogger(opts.Logger, "assembly"))
	report, err := guardrail.Evaluate(res.Package, checks)
	if err != nil {
		return guardrail.Report{}, err
	}
	res.Report = report
	if v := report.Violation; v != nil {
		logger.Debug("guardrail check failed",
			logging.String("check", v.Check),
			logging.String(logging.FieldRecord, v.Record),
		)
		return report, nil
	}
	logger.Info("guardrail checks passed", logging.Int("checks", len(report.Results)))
	return report, nil
}

// Assemble runs resolve, build and link and returns the sealed package
// without validating it.
func Assemble(ctx context.Context, opts Options) (*Result, error) {
	if opts.Manifest == nil {
		return nil, errors.New("assemble: manifest is required")
	}
	if opts.Catalog == nil {
		return nil, errors.New("assemble: catalog is required")
	}
	plugin := strings.TrimSpace(opts.Plugin)
	first := opts.FirstFormID
	if first == 0 {
		first = formid.FirstLocal
	}
	alloc, err := formid.NewAllocatorRange(plugin, first, formid.MaxLocal)
	if err != nil {
		return nil, err
	}

	pkg := record.NewPackage(plugin)
	p := &pass{
		m:        opts.Manifest,
		alloc:    alloc,
		resolver: catalog.NewResolver(opts.Catalog, opts.Logger),
		pkg:      pkg,
		link:     linker.New(pkg.Registry),
		logger:   logging.NewComponentLogger(opts.Logger, "assembly"),
		refs:     make(map[string]formid.ID),
		topics:   make(map[string]*record.Topic),
		scenes:   make(map[string]*record.Scene),
	}

	steps := []struct {
		phase string
		run   func(context.Context) error
	}{
		{PhaseResolve, p.resolve},
		{PhaseBuild, p.build},
		{PhaseLink, p.bind},
	}
	for _, step := range steps {
		if err := step.run(logging.WithPhase(ctx, step.phase)); err != nil {
			return nil, err
		}
	}
	pkg.Registry.Seal()

	p.log(ctx).Info("package assembled",
		logging.String("plugin", plugin),
		logging.Int("records", pkg.Registry.Len()),
		logging.Int("masters", len(pkg.Masters())),
		logging.Int("omitted", len(p.omitted)),
	)
	return &Result{
		Package: pkg,
		Quest:   p.quest,
		Actor:   p.actor,
		Omitted: p.omitted,
		Issued:  alloc.Issued(),
	}, nil
}

// pass carries the state of one build.
type pass struct {
	m        *content.Manifest
	alloc    *formid.Allocator
	resolver *catalog.Resolver
	pkg      *record.Package
	link     *linker.Linker
	logger   *slog.Logger
	omitted  []string

	// refs maps "kind:EditorID" of resolved catalog records to identifiers.
	refs map[string]formid.ID

	plan     *plan
	actor    *record.Actor
	quest    *record.Quest
	greeting *record.Topic
	topics   map[string]*record.Topic
	scenes   map[string]*record.Scene
}

func (p *pass) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, p.logger)
}

func (p *pass) register(rec record.Record) error {
	return p.pkg.Registry.Add(rec)
}
