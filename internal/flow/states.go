package flow

// State is a step of the assessment.
type State string

const (
	StateStart      State = "START"
	StateProfiling  State = "PROFILING"
	StateAssessment State = "ASSESSMENT"
	StateAnalyzing  State = "ANALYZING"
	StateResult     State = "RESULT"
)

// States lists every state in lifecycle order.
func States() []State {
	return []State{StateStart, StateProfiling, StateAssessment, StateAnalyzing, StateResult}
}

// Event names what moves the controller between states.
type Event string

const (
	EventBegin          Event = "begin"
	EventSubmitProfile  Event = "submit_profile"
	EventAnswer         Event = "answer"
	EventAdvance        Event = "advance"
	EventBack           Event = "back"
	EventBackToProfile  Event = "back_to_profile"
	EventFinish         Event = "finish"
	EventFinishAnalyze  Event = "finish_with_analysis"
	EventSummarySettled Event = "summary_settled"
	EventRetry          Event = "retry_summary"
	EventReset          Event = "reset"
)

// Transition is one legal edge of the state machine.
type Transition struct {
	From  State
	Event Event
	To    State
	Guard string
}

var transitions = []Transition{
	{StateStart, EventBegin, StateProfiling, ""},
	{StateProfiling, EventSubmitProfile, StateAssessment, "profile valid"},
	{StateAssessment, EventAnswer, StateAssessment, "value is a scale option"},
	{StateAssessment, EventAdvance, StateAssessment, "scale complete, not last"},
	{StateAssessment, EventBack, StateAssessment, "not first scale"},
	{StateAssessment, EventBackToProfile, StateProfiling, "first scale"},
	{StateAssessment, EventFinish, StateResult, "last scale complete, analysis off"},
	{StateAssessment, EventFinishAnalyze, StateAnalyzing, "last scale complete, analysis on"},
	{StateAnalyzing, EventSummarySettled, StateResult, ""},
	{StateResult, EventRetry, StateResult, "previous summary failed, none in flight"},
	{StateResult, EventReset, StateStart, ""},
}

// Transitions returns the legal transitions in lifecycle order.
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}

func lookup(from State, ev Event) (Transition, bool) {
	for _, t := range transitions {
		if t.From == from && t.Event == ev {
			return t, true
		}
	}
	return Transition{}, false
}
