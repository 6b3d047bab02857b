package partition

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hyperpart/pkg/engine"
	_ "github.com/matzehuels/hyperpart/pkg/engine/builtin" // default engine
	"github.com/matzehuels/hyperpart/pkg/resource"
)

var defaultController = resource.NewController(resource.Config{})

// Resources returns the controller used by handles created without
// [WithController].
func Resources() *resource.Controller { return defaultController }

// Option configures handle construction.
type Option func(*options)

type options struct {
	engineName string
	eng        engine.Engine
	logger     *log.Logger
	controller *resource.Controller
}

// WithEngine selects a registered engine by name. The default is
// [engine.DefaultName].
func WithEngine(name string) Option {
	return func(o *options) { o.engineName = name }
}

// WithEngineInstance uses e directly, bypassing the registry.
func WithEngineInstance(e engine.Engine) Option {
	return func(o *options) { o.eng = e }
}

// WithLogger sets the logger for handle lifecycle events. The default
// discards all output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithController sets the resource controller that accounts for the handle.
func WithController(c *resource.Controller) Option {
	return func(o *options) { o.controller = c }
}

func newOptions(opts []Option) (options, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.eng == nil {
		e, err := engine.Lookup(o.engineName)
		if err != nil {
			return o, err
		}
		o.eng = e
	}
	if o.logger == nil {
		o.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.controller == nil {
		o.controller = defaultController
	}
	return o, nil
}
