package csvimport

// ImporterStep is one node in the importer lifecycle.
type ImporterStep int

const (
	StepIdle ImporterStep = iota
	StepParsing
	StepMapping
	StepValidating
	StepReview
	StepComplete
	StepError
)

func (s ImporterStep) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepParsing:
		return "parsing"
	case StepMapping:
		return "mapping"
	case StepValidating:
		return "validating"
	case StepReview:
		return "review"
	case StepComplete:
		return "complete"
	case StepError:
		return "error"
	default:
		return "unknown"
	}
}

// ActionType enumerates the reducer's legal actions.
type ActionType int

const (
	ActionLoadFile ActionType = iota
	ActionLoadString
	ActionParseStart
	ActionParseComplete
	ActionParseError
	ActionSetMapping
	ActionUpdateMapping
	ActionConfirmMapping
	ActionSkipMapping
	ActionValidateComplete
	ActionValidateError
	ActionAccept
	ActionReset
	ActionGoBack
	ActionSetProgress
)

// Action is one reducer input. Only the fields relevant to Type are read.
type Action struct {
	Type ActionType

	FileName string
	FileSize int64

	ParseResult *ParseResult
	ParseErr    string

	Mapping     *MappingResult
	CSVIndex    int
	SchemaCol   string
	Schema      *Schema

	ValidateResult *ValidationResult
	BitmapResult   *BitmapValidationResult
	ValidateErr    string

	Progress float64
}

// ImporterState is the reducer's full state snapshot.
type ImporterState struct {
	Step ImporterStep

	FileName string
	FileSize int64
	Progress float64

	ParseResult *ParseResult
	Preview     [][]string

	Mapping *MappingResult

	ValidateResult   *ValidationResult
	BitmapValidation *BitmapValidationResult

	ErrorMessage string

	history []ImporterStep
}

// CreateInitialState returns a fresh idle importer.
func CreateInitialState() *ImporterState {
	return &ImporterState{Step: StepIdle}
}

// backEdge names, for each step, the step GO_BACK returns to.
var backEdge = map[ImporterStep]ImporterStep{
	StepMapping:  StepIdle,
	StepReview:   StepMapping,
	StepComplete: StepReview,
	StepError:    StepIdle,
}

// forwardSteps are the steps canGoForward reports true for.
var forwardSteps = map[ImporterStep]bool{
	StepMapping: true,
	StepReview:  true,
}

// ImporterReducer advances state by one action. Out-of-step actions are
// no-ops: the reducer returns state unchanged (same pointer) rather than
// raising, since guarding on current step is the contract, not an error
// condition.
func ImporterReducer(state *ImporterState, action Action) *ImporterState {
	if state == nil {
		state = CreateInitialState()
	}

	if action.Type == ActionReset {
		return CreateInitialState()
	}

	if action.Type == ActionGoBack {
		prior, ok := backEdge[state.Step]
		if !ok || !IsValidTransition(state.Step, prior) {
			return state
		}
		next := cloneState(state)
		next.Step = prior
		next.history = append(next.history, state.Step)
		if prior == StepMapping {
			next.ValidateResult = nil
			next.BitmapValidation = nil
		}
		return next
	}

	switch action.Type {
	case ActionLoadFile, ActionLoadString, ActionParseStart:
		if state.Step != StepIdle && state.Step != StepError {
			return state
		}
		next := CreateInitialState()
		next.Step = StepParsing
		next.FileName = action.FileName
		next.FileSize = action.FileSize
		return next

	case ActionParseComplete:
		if state.Step != StepParsing {
			return state
		}
		next := cloneState(state)
		next.Step = StepMapping
		next.ParseResult = action.ParseResult
		if action.ParseResult != nil {
			next.Preview = previewRows(action.ParseResult.Rows, 10)
		}
		return next

	case ActionParseError:
		if state.Step != StepParsing {
			return state
		}
		next := cloneState(state)
		next.Step = StepError
		next.ErrorMessage = action.ParseErr
		return next

	case ActionSetMapping:
		if state.Step != StepMapping {
			return state
		}
		next := cloneState(state)
		next.Mapping = action.Mapping
		return next

	case ActionUpdateMapping:
		if state.Step != StepMapping || state.Mapping == nil || action.Schema == nil {
			return state
		}
		next := cloneState(state)
		next.Mapping = UpdateMapping(state.Mapping, action.CSVIndex, action.SchemaCol, action.Schema)
		return next

	case ActionConfirmMapping, ActionSkipMapping:
		if state.Step != StepMapping {
			return state
		}
		next := cloneState(state)
		next.Step = StepValidating
		return next

	case ActionValidateComplete:
		if state.Step != StepValidating {
			return state
		}
		next := cloneState(state)
		next.Step = StepReview
		next.ValidateResult = action.ValidateResult
		next.BitmapValidation = action.BitmapResult
		return next

	case ActionValidateError:
		if state.Step != StepValidating {
			return state
		}
		next := cloneState(state)
		next.Step = StepError
		next.ErrorMessage = action.ValidateErr
		return next

	case ActionAccept:
		if state.Step != StepReview {
			return state
		}
		next := cloneState(state)
		next.Step = StepComplete
		return next

	case ActionSetProgress:
		if state.Step != StepParsing && state.Step != StepValidating {
			return state
		}
		next := cloneState(state)
		next.Progress = action.Progress
		return next

	default:
		return state
	}
}

func cloneState(s *ImporterState) *ImporterState {
	clone := *s
	clone.history = append([]ImporterStep{}, s.history...)
	return &clone
}

func previewRows(rows [][]string, n int) [][]string {
	if len(rows) <= n {
		return rows
	}
	return rows[:n]
}

// IsValidTransition reports whether from->to is a legal edge in the
// lifecycle DAG (forward edges, GO_BACK edges, and RESET from anywhere).
func IsValidTransition(from, to ImporterStep) bool {
	if to == StepIdle {
		return true // RESET, and error/mapping GO_BACK targets
	}
	switch from {
	case StepIdle, StepError:
		return to == StepParsing
	case StepParsing:
		return to == StepMapping || to == StepError
	case StepMapping:
		return to == StepValidating
	case StepValidating:
		return to == StepReview || to == StepError
	case StepReview:
		return to == StepComplete || to == StepMapping
	case StepComplete:
		return to == StepReview
	default:
		return false
	}
}

// CanGoBack reports whether step has a defined GO_BACK edge.
func CanGoBack(step ImporterStep) bool {
	_, ok := backEdge[step]
	return ok
}

// CanGoForward reports whether step has a defined forward (non-back,
// non-reset) continuation a host UI should offer as "Next".
func CanGoForward(step ImporterStep) bool {
	return forwardSteps[step]
}

// GetBackSteps returns the full chain of GO_BACK targets starting from
// step, as a host breadcrumb trail would want to render it.
func GetBackSteps(step ImporterStep) []ImporterStep {
	var chain []ImporterStep
	cur := step
	for {
		prior, ok := backEdge[cur]
		if !ok {
			break
		}
		chain = append(chain, prior)
		cur = prior
	}
	return chain
}
