package summary

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/productsummary/internal/logging"
)

// CaseLoadedMsg carries the outcome of one case-record fetch.
type CaseLoadedMsg struct {
	CaseID string
	Record *CaseRecord
	Err    error
}

// Controller bridges the case record to the Loader and exposes the
// render-ready state.
//
// Setting a case ID returns the command that fetches the case; once its
// CaseLoadedMsg is applied the controller forwards the contact to the loader.
// A case fetch failure bypasses the loader.
type Controller struct {
	cases  CaseRecordSource
	loader *Loader

	ctx       context.Context
	caseID    string
	contactID *ContactID
}

// NewController returns a controller in the Loading state with no case.
func NewController(cases CaseRecordSource, loader *Loader) *Controller {
	return &Controller{
		cases:  cases,
		loader: loader,
		ctx:    context.Background(),
	}
}

// SetCaseID switches the controller to caseID and returns the command that
// fetches the case record. ctx is used for every fetch triggered by this case.
// An empty caseID moves to Empty and returns nil.
func (c *Controller) SetCaseID(ctx context.Context, caseID string) tea.Cmd {
	if ctx == nil {
		ctx = context.Background()
	}
	c.ctx = ctx
	c.caseID = caseID
	c.contactID = nil

	if caseID == "" {
		c.loader.empty()
		return nil
	}

	c.loader.reset()
	return c.fetchCase()
}

// Reload re-fetches the current case, restarting the whole chain.
func (c *Controller) Reload() tea.Cmd {
	return c.SetCaseID(c.ctx, c.caseID)
}

func (c *Controller) fetchCase() tea.Cmd {
	ctx := c.ctx
	caseID := c.caseID
	cases := c.cases

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "summary").
		Str("operation", "fetch_case").
		Str("case_id", caseID).
		Msg("requesting case record")

	return func() tea.Msg {
		record, err := guard(func() (*CaseRecord, error) {
			return cases.FetchCase(ctx, caseID)
		})
		return CaseLoadedMsg{CaseID: caseID, Record: record, Err: err}
	}
}

// HandleCaseLoaded applies a case fetch result and returns the product
// fetch command, if any. Results for a case other than the current one are
// ignored.
func (c *Controller) HandleCaseLoaded(msg CaseLoadedMsg) tea.Cmd {
	log := logging.FromContext(c.ctx)

	if msg.CaseID != c.caseID {
		log.Debug().
			Ctx(c.ctx).
			Str("component", "summary").
			Str("case_id", msg.CaseID).
			Str("current_case_id", c.caseID).
			Msg("ignoring case record for previous case")
		return nil
	}

	if msg.Err != nil {
		log.Warn().
			Ctx(c.ctx).
			Str("component", "summary").
			Str("case_id", msg.CaseID).
			Err(msg.Err).
			Msg("case record fetch failed")
		c.contactID = nil
		c.loader.fail(MsgCaseLoadError)
		return nil
	}

	c.contactID = nil
	if msg.Record != nil && msg.Record.ContactID != nil {
		id := *msg.Record.ContactID
		c.contactID = &id
	}
	return c.loader.OnContactResolved(c.ctx, c.contactID)
}

// Update applies case and product messages and returns any follow-up command.
// Other messages are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case CaseLoadedMsg:
		return c.HandleCaseLoaded(msg)
	case ProductLoadedMsg:
		c.loader.HandleProductLoaded(c.ctx, msg)
	}
	return nil
}

// CaseID returns the current case ID.
func (c *Controller) CaseID() string { return c.caseID }

// ContactID returns the contact derived from the current case, or nil.
func (c *Controller) ContactID() *ContactID { return c.contactID }

// State returns the current load state.
func (c *Controller) State() LoadState { return c.loader.State() }

// Rows returns zero or one row.
func (c *Controller) Rows() []ViewRow { return c.State().Rows() }

// IsLoading reports whether a fetch is outstanding.
func (c *Controller) IsLoading() bool { return c.State().Kind == StateLoading }

// ErrorMessage returns the user-facing error, or "".
func (c *Controller) ErrorMessage() string { return c.State().Message }

// HasNoRows reports whether the table would be empty.
func (c *Controller) HasNoRows() bool { return c.State().HasNoRows() }

// Columns returns the column metadata for the table.
func (c *Controller) Columns() []Column { return Columns() }

// Snapshot is the serializable view of the controller.
type Snapshot struct {
	CaseID    string     `json:"caseId"`
	ContactID *ContactID `json:"contactId"`
	State     string     `json:"state"`
	Rows      []ViewRow  `json:"rows"`
	IsLoading bool       `json:"isLoading"`
	Error     string     `json:"error,omitempty"`
	NoRows    bool       `json:"noRows"`
	Columns   []Column   `json:"columns"`
}

// Snapshot captures the current exposed surface.
func (c *Controller) Snapshot() Snapshot {
	state := c.State()
	return Snapshot{
		CaseID:    c.caseID,
		ContactID: c.contactID,
		State:     state.Kind.String(),
		Rows:      state.Rows(),
		IsLoading: state.Kind == StateLoading,
		Error:     state.Message,
		NoRows:    state.HasNoRows(),
		Columns:   Columns(),
	}
}
