package conversation

type State string

const (
	StateWaitingForInitialSubmission State = "waiting_for_initial_submission"
	StateAskingForAdditionalDetails  State = "asking_for_additional_details"
	StateAskingForSuggestions        State = "asking_for_suggestions"
	StateCompleted                   State = "conversation_completed"
)

func (s State) Valid() bool {
	switch s {
	case StateWaitingForInitialSubmission, StateAskingForAdditionalDetails,
		StateAskingForSuggestions, StateCompleted:
		return true
	}
	return false
}

func (s State) Terminal() bool { return s == StateCompleted }
