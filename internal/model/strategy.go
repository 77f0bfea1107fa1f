package model

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Strategy decides how many metagenes the model carries as training
// progresses.
type Strategy interface {
	// Name returns the strategy's registered name.
	Name() string
	// Metagenes reports the metagene count in effect for the given epoch.
	// Epochs count from 1.
	Metagenes(epoch int) int
}

// factory builds a strategy from the parameters of an expansion_strategy
// block. Factories reject parameters they do not define.
type factory func(params map[string]cty.Value) (Strategy, error)

var strategyFactories = map[string]factory{
	"static": newStatic,
	"extend": newExtend,
}

// NewStrategy builds the named expansion strategy.
func NewStrategy(name string, params map[string]cty.Value) (Strategy, error) {
	build, ok := strategyFactories[name]
	if !ok {
		return nil, fmt.Errorf("model: unknown expansion strategy %q (known: %v)", name, StrategyNames())
	}
	return build(params)
}

// StrategyNames returns the registered strategy names, sorted.
func StrategyNames() []string {
	names := make([]string, 0, len(strategyFactories))
	for name := range strategyFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// static keeps a fixed number of metagenes for the whole run.
type static struct {
	metagenes int
}

func newStatic(params map[string]cty.Value) (Strategy, error) {
	p := newParams("static", params)
	metagenes := p.intOr("metagenes", 1)
	if err := p.done(); err != nil {
		return nil, err
	}
	if metagenes < 1 {
		return nil, fmt.Errorf("model: static strategy needs metagenes >= 1, got %d", metagenes)
	}
	return &static{metagenes: metagenes}, nil
}

func (s *static) Name() string { return "static" }

func (s *static) Metagenes(epoch int) int { return s.metagenes }

// extend grows the metagene count by one every interval epochs, up to limit.
type extend struct {
	start    int
	interval int
	limit    int
}

func newExtend(params map[string]cty.Value) (Strategy, error) {
	p := newParams("extend", params)
	start := p.intOr("start", 1)
	interval := p.intOr("interval", 100)
	limit := p.intOr("limit", 50)
	if err := p.done(); err != nil {
		return nil, err
	}
	if start < 1 || interval < 1 || limit < start {
		return nil, fmt.Errorf(
			"model: extend strategy needs start >= 1, interval >= 1, limit >= start; got start=%d interval=%d limit=%d",
			start, interval, limit,
		)
	}
	return &extend{start: start, interval: interval, limit: limit}, nil
}

func (s *extend) Name() string { return "extend" }

func (s *extend) Metagenes(epoch int) int {
	if epoch < 1 {
		epoch = 1
	}
	n := s.start + (epoch-1)/s.interval
	if n > s.limit {
		return s.limit
	}
	return n
}

// params tracks which block attributes a factory consumed so leftovers can
// be reported as errors instead of silently ignored.
type params struct {
	strategy string
	values   map[string]cty.Value
	used     map[string]bool
	errs     []error
}

func newParams(strategy string, values map[string]cty.Value) *params {
	return &params{strategy: strategy, values: values, used: make(map[string]bool)}
}

func (p *params) intOr(name string, def int) int {
	value, ok := p.values[name]
	if !ok {
		return def
	}
	p.used[name] = true
	converted, err := convert.Convert(value, cty.Number)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("model: parameter %q of strategy %q: %w", name, p.strategy, err))
		return def
	}
	var n int
	if err := gocty.FromCtyValue(converted, &n); err != nil {
		p.errs = append(p.errs, fmt.Errorf("model: parameter %q of strategy %q: %w", name, p.strategy, err))
		return def
	}
	return n
}

func (p *params) done() error {
	for name := range p.values {
		if !p.used[name] {
			p.errs = append(p.errs, fmt.Errorf("model: strategy %q does not accept parameter %q", p.strategy, name))
		}
	}
	if len(p.errs) == 0 {
		return nil
	}
	sort.Slice(p.errs, func(i, j int) bool { return p.errs[i].Error() < p.errs[j].Error() })
	return p.errs[0]
}
