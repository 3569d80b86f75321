package results

// OperationResult carries either a success or a failure payload from a service
// operation. Business-rule violations travel as Failure payloads with a nil Go
// error; only infrastructure faults are returned as errors.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// Success builds a success result.
func Success[S any, F any](payload S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &payload}
}

// Failure builds a failure result.
func Failure[S any, F any](payload F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &payload}
}

// IsSuccess reports whether the operation produced a success payload.
func (r OperationResult[S, F]) IsSuccess() bool { return r.Success != nil }

// IsFailure reports whether the operation produced a failure payload.
func (r OperationResult[S, F]) IsFailure() bool { return r.Failure != nil }
