package analyzer

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Extractor is a single independent signal extractor. An extractor fills in
// exactly one section of Signals and must not touch the others.
type Extractor interface {
	Name() string
	Extract(p *Page, s *Signals) error
}

// Registry holds the set of registered extractors and runs them against a
// page. A failing or panicking extractor degrades only its own section: the
// failure is recorded in Signals.Errors under the extractor's name and the
// remaining extractors still run.
type Registry struct {
	extractors []Extractor
	log        *logrus.Logger
}

// NewRegistry returns a registry with the full default extractor set.
func NewRegistry(log *logrus.Logger) *Registry {
	r := &Registry{log: log}
	r.Register(seoExtractor{})
	r.Register(contentExtractor{})
	r.Register(linkExtractor{})
	r.Register(imageExtractor{})
	r.Register(accessibilityExtractor{})
	r.Register(securityExtractor{})
	r.Register(performanceExtractor{})
	r.Register(indexabilityExtractor{})
	r.Register(vitalsExtractor{})
	return r
}

// Register appends an extractor. Registration order is execution order.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Names returns the registered extractor names in execution order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.extractors))
	for _, e := range r.extractors {
		names = append(names, e.Name())
	}
	return names
}

// Run executes every registered extractor against the page and returns the
// combined signals. Run never fails as a whole.
func (r *Registry) Run(p *Page) *Signals {
	signals := &Signals{Errors: make(map[string]string)}

	for _, e := range r.extractors {
		if err := r.runOne(e, p, signals); err != nil {
			signals.Errors[e.Name()] = err.Error()
			if r.log != nil {
				r.log.WithFields(logrus.Fields{
					"extractor": e.Name(),
					"url":       p.Meta.URL,
				}).WithError(err).Warn("extractor failed")
			}
		}
	}

	if len(signals.Errors) == 0 {
		signals.Errors = nil
	}
	return signals
}

func (r *Registry) runOne(e Extractor, p *Page, s *Signals) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return e.Extract(p, s)
}
