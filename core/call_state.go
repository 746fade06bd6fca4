package core

type CallState int

const (
	CallStateUnknown CallState = iota
	CallStateExecuting
	CallStateExecutingFailed
	CallStateRetrieving
	CallStateRetrievingFailed
	CallStateDone
	CallStateCanceled
)

func CallStateFromString(s string) CallState {
	switch s {
	case CallStateExecuting.String():
		return CallStateExecuting
	case CallStateExecutingFailed.String():
		return CallStateExecutingFailed

	case CallStateRetrieving.String():
		return CallStateRetrieving
	case CallStateRetrievingFailed.String():
		return CallStateRetrievingFailed

	case CallStateDone.String():
		return CallStateDone

	case CallStateCanceled.String():
		return CallStateCanceled

	default:
		return CallStateUnknown
	}
}

func (s CallState) String() string {
	switch s {
	case CallStateExecuting:
		return "executing"
	case CallStateExecutingFailed:
		return "executing_failed"

	case CallStateRetrieving:
		return "retrieving"
	case CallStateRetrievingFailed:
		return "retrieving_failed"

	case CallStateDone:
		return "done"

	case CallStateCanceled:
		return "canceled"

	default:
		return "unknown"
	}
}
