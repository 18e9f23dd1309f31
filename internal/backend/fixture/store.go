// Package fixture serves case records and product summaries from a YAML file.
//
// It backs local development (`productsummary serve`) and tests. A fixture
// file looks like:
//
//	latency: 250ms
//	cases:
//	  - id: 500A
//	    contact_id: 003A
//	  - id: 500B            # case without contact
//	products:
//	  003A:
//	    product_name: Metal
//	    monthly_cost: 16.9
//	    atm_fee: 1.7
//	    card_replacement_cost: 10
//	    country_code: DE
//	    is_default: true
//	failing_cases: [500X]
//	failing_contacts: [003X]
package fixture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/productsummary/internal/logging"
	"github.com/rshade/productsummary/internal/summary"
)

// ErrSimulatedFailure is returned for IDs listed as failing in the fixture.
var ErrSimulatedFailure = errors.New("simulated backend failure")

// File is the on-disk fixture layout.
type File struct {
	Latency         time.Duration                                `yaml:"latency"`
	Cases           []summary.CaseRecord                         `yaml:"cases"`
	Products        map[summary.ContactID]summary.ProductSummary `yaml:"products"`
	FailingCases    []string                                     `yaml:"failing_cases"`
	FailingContacts []summary.ContactID                          `yaml:"failing_contacts"`
}

// Store is an in-memory CaseRecordSource and ProductService.
// Safe for concurrent use.
type Store struct {
	mu              sync.RWMutex
	latency         time.Duration
	cases           map[string]summary.CaseRecord
	products        map[summary.ContactID]summary.ProductSummary
	failingCases    map[string]bool
	failingContacts map[summary.ContactID]bool
}

// New returns an empty store.
func New() *Store {
	return &Store{
		cases:           map[string]summary.CaseRecord{},
		products:        map[summary.ContactID]summary.ProductSummary{},
		failingCases:    map[string]bool{},
		failingContacts: map[summary.ContactID]bool{},
	}
}

// Load reads a fixture file from path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture file %q: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing fixture file %q: %w", path, err)
	}
	return s, nil
}

// Parse builds a store from YAML fixture data.
func Parse(data []byte) (*Store, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return FromFile(f)
}

// FromFile builds a store from a decoded fixture.
func FromFile(f File) (*Store, error) {
	if f.Latency < 0 {
		return nil, fmt.Errorf("latency must be >= 0, got %s", f.Latency)
	}

	s := New()
	s.latency = f.Latency
	for _, c := range f.Cases {
		if c.ID == "" {
			return nil, summary.ErrEmptyCaseID
		}
		if _, dup := s.cases[c.ID]; dup {
			return nil, fmt.Errorf("duplicate case %q", c.ID)
		}
		s.cases[c.ID] = c
	}
	for id, p := range f.Products {
		s.products[id] = p
	}
	for _, id := range f.FailingCases {
		s.failingCases[id] = true
	}
	for _, id := range f.FailingContacts {
		s.failingContacts[id] = true
	}
	return s, nil
}

// PutCase adds or replaces a case record.
func (s *Store) PutCase(c summary.CaseRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[c.ID] = c
}

// PutProduct adds or replaces the product for a contact.
func (s *Store) PutProduct(id summary.ContactID, p summary.ProductSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id] = p
}

// FailCase makes lookups of caseID fail.
func (s *Store) FailCase(caseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failingCases[caseID] = true
}

// FailContact makes product lookups for id fail.
func (s *Store) FailContact(id summary.ContactID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failingContacts[id] = true
}

// FetchCase implements summary.CaseRecordSource.
func (s *Store) FetchCase(ctx context.Context, caseID string) (*summary.CaseRecord, error) {
	if caseID == "" {
		return nil, summary.ErrEmptyCaseID
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failingCases[caseID] {
		return nil, fmt.Errorf("case %q: %w", caseID, ErrSimulatedFailure)
	}
	c, ok := s.cases[caseID]
	if !ok {
		return nil, fmt.Errorf("case %q: %w", caseID, summary.ErrCaseNotFound)
	}

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "fixture").
		Str("case_id", caseID).
		Bool("has_contact", c.ContactID != nil).
		Msg("served case record")

	out := c
	if c.ContactID != nil {
		id := *c.ContactID
		out.ContactID = &id
	}
	return &out, nil
}

// FetchProductSummary implements summary.ProductService.
func (s *Store) FetchProductSummary(ctx context.Context, id summary.ContactID) (*summary.ProductSummary, error) {
	if id == "" {
		return nil, summary.ErrEmptyContactID
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failingContacts[id] {
		return nil, fmt.Errorf("contact %q: %w", id, ErrSimulatedFailure)
	}
	p, ok := s.products[id]
	if !ok {
		return nil, nil //nolint:nilnil // No product is a valid answer.
	}
	if p.ATMFee != nil {
		v := *p.ATMFee
		p.ATMFee = &v
	}
	return &p, nil
}

// wait sleeps for the configured latency or until ctx is done.
func (s *Store) wait(ctx context.Context) error {
	s.mu.RLock()
	d := s.latency
	s.mu.RUnlock()

	if d == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
