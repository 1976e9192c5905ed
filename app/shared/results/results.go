// Package results carries the outcome of a service operation across the
// application/handler boundary. A business-rule rejection travels as a
// Failure payload (and becomes a failure event) rather than as an error;
// Error is reserved for infrastructure problems that should fail the
// whole message.
package results

// OperationResult is the Success/Failure/Error triple returned by every
// service operation.
type OperationResult struct {
	Success any
	Failure any
	Error   error
}

// HandlerResult is one outbound event derived from an OperationResult.
type HandlerResult struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// SuccessResult wraps a success payload.
func SuccessResult(payload any) OperationResult {
	return OperationResult{Success: payload}
}

// FailureResult wraps a business failure payload together with the
// sentinel error that produced it.
func FailureResult(payload any, err error) OperationResult {
	return OperationResult{Failure: payload, Error: err}
}

// MapToHandlerResults maps the result onto a success topic or a failure
// topic. Operations that emit more than one event map their results by
// hand in the handler instead.
func (r OperationResult) MapToHandlerResults(successTopic, failureTopic string) []HandlerResult {
	switch {
	case r.Success != nil:
		return []HandlerResult{{Topic: successTopic, Payload: r.Success}}
	case r.Failure != nil:
		return []HandlerResult{{Topic: failureTopic, Payload: r.Failure}}
	default:
		return nil
	}
}
