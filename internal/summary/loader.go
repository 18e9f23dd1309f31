package summary

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/productsummary/internal/logging"
)

// ProductLoadedMsg carries the outcome of one product-summary fetch.
type ProductLoadedMsg struct {
	ContactID ContactID
	Seq       uint64
	Summary   *ProductSummary
	Err       error
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDiscardStale makes the loader drop responses from all but the most
// recently issued fetch.
func WithDiscardStale(discard bool) LoaderOption {
	return func(l *Loader) {
		l.discardStale = discard
	}
}

// Loader turns a resolved contact into a product row.
// It is not safe for concurrent use; apply messages from one goroutine.
type Loader struct {
	service      ProductService
	state        LoadState
	discardStale bool

	// seq is the token of the most recently issued fetch.
	seq uint64
}

// NewLoader returns a Loader in the Loading state.
func NewLoader(service ProductService, opts ...LoaderOption) *Loader {
	l := &Loader{
		service: service,
		state:   Loading(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current load state.
func (l *Loader) State() LoadState {
	return l.state
}

// OnContactResolved starts loading the product for contactID.
//
// A nil or empty contact moves straight to Empty and returns nil. Otherwise
// the state becomes Loading and the returned command performs exactly one
// FetchProductSummary call. Repeated calls with the same contact each issue
// their own fetch.
func (l *Loader) OnContactResolved(ctx context.Context, contactID *ContactID) tea.Cmd {
	log := logging.FromContext(ctx)

	if contactID == nil || *contactID == "" {
		log.Debug().
			Ctx(ctx).
			Str("component", "summary").
			Msg("case has no contact, nothing to load")
		l.seq++
		l.state = Empty()
		return nil
	}

	l.seq++
	seq := l.seq
	id := *contactID
	service := l.service
	l.state = Loading()

	log.Debug().
		Ctx(ctx).
		Str("component", "summary").
		Str("operation", "fetch_product_summary").
		Str("contact_id", string(id)).
		Uint64("seq", seq).
		Msg("requesting product summary")

	return func() tea.Msg {
		result, err := guard(func() (*ProductSummary, error) {
			return service.FetchProductSummary(ctx, id)
		})
		return ProductLoadedMsg{ContactID: id, Seq: seq, Summary: result, Err: err}
	}
}

// HandleProductLoaded applies a fetch result.
func (l *Loader) HandleProductLoaded(ctx context.Context, msg ProductLoadedMsg) {
	log := logging.FromContext(ctx)

	if l.discardStale && msg.Seq != l.seq {
		log.Debug().
			Ctx(ctx).
			Str("component", "summary").
			Str("contact_id", string(msg.ContactID)).
			Uint64("seq", msg.Seq).
			Uint64("latest_seq", l.seq).
			Msg("discarding stale product summary response")
		return
	}

	switch {
	case msg.Err != nil:
		log.Warn().
			Ctx(ctx).
			Str("component", "summary").
			Str("contact_id", string(msg.ContactID)).
			Err(msg.Err).
			Msg("product summary fetch failed")
		l.state = Failed(MsgProductLoadError)
	case msg.Summary == nil:
		log.Debug().
			Ctx(ctx).
			Str("component", "summary").
			Str("contact_id", string(msg.ContactID)).
			Msg("no product summary for contact")
		l.state = Empty()
	default:
		row := NewViewRow(*msg.Summary)
		log.Debug().
			Ctx(ctx).
			Str("component", "summary").
			Str("contact_id", string(msg.ContactID)).
			Str("product", row.ProductName).
			Str("atm_fee_label", row.ATMFeeLabel).
			Msg("product summary loaded")
		l.state = Ready(row)
	}
}

// The helpers below move the loader without issuing a fetch. Each one bumps
// seq so a fetch still in flight cannot overwrite the new state.

// fail puts the loader into an error state that did not come from a product fetch.
func (l *Loader) fail(message string) {
	l.seq++
	l.state = Failed(message)
}

// reset puts the loader back into Loading.
func (l *Loader) reset() {
	l.seq++
	l.state = Loading()
}

// empty puts the loader into Empty.
func (l *Loader) empty() {
	l.seq++
	l.state = Empty()
}
