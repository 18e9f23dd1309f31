package summary

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors shared by the controller and the backends.
var (
	// ErrCaseNotFound is returned by case sources when the case does not exist.
	ErrCaseNotFound = constError("case not found")

	// ErrEmptyCaseID is returned when a case lookup is attempted without an ID.
	ErrEmptyCaseID = constError("case ID is required")

	// ErrEmptyContactID is returned when a product lookup is attempted without a contact.
	ErrEmptyContactID = constError("contact ID is required")

	// ErrCollaboratorPanic wraps a panic recovered from a backend call.
	ErrCollaboratorPanic = constError("backend call panicked")
)

// User-facing error messages.
const (
	MsgCaseLoadError    = "Error loading Case."
	MsgProductLoadError = "Could not load product information."
)
