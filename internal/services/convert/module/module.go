// Package module provides the convert module implementation
package module

import (
	"context"
	"strings"

	"reports/internal/core/table"
	"reports/internal/modkit"
	"reports/internal/platform/validate"
	"reports/internal/services/convert/domain"
	"reports/internal/services/convert/ingest"
	"reports/internal/services/convert/service"
)

// Ports defines the convert module ports
type Ports struct {
	Converter domain.ConverterPort
}

// Module implements the convert module
type Module struct {
	deps  modkit.Deps
	opts  domain.Options
	ports Ports
}

var _ modkit.Module = (*Module)(nil)

// New validates opts and wires the JSON-lines source and CSV sink into the service
func New(deps modkit.Deps, opts domain.Options) (*Module, error) {
	opts.Order = strings.ToLower(strings.TrimSpace(opts.Order))
	if err := validate.Struct(opts); err != nil {
		return nil, err
	}
	order, err := table.ParseOrder(opts.Order)
	if err != nil {
		return nil, err
	}

	svc := service.New(
		ingest.NewSourceFactory(opts.MaxLineBytes),
		ingest.NewSink(opts.Delimiter),
		service.Config{Order: order},
	)

	deps.Log.Debug().
		Str("input", opts.Input).
		Str("output", opts.Output).
		Str("order", order.String()).
		Str("delimiter", string(opts.Delimiter)).
		Int("max_line_bytes", opts.MaxLineBytes).
		Msg("convert: module ready")

	m := &Module{deps: deps, opts: opts}
	m.ports = Ports{Converter: svc}
	return m, nil
}

// Run converts the configured input into the configured output
func (m *Module) Run(ctx context.Context) (domain.Stats, error) {
	return m.ports.Converter.Convert(ctx, m.opts.Input, m.opts.Output)
}

// Options returns the validated options the module was built with
func (m *Module) Options() domain.Options { return m.opts }

// Name returns the module name
func (m *Module) Name() string { return "convert" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
