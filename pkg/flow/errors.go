package flow

import "errors"

var (
	// ErrLastStep is returned by Advance on the final step; use Submit there.
	ErrLastStep = errors.New("flow: already on the last step")
	// ErrNotLastStep is returned by Submit before the final step is reached.
	ErrNotLastStep = errors.New("flow: submit is only available on the last step")
	// ErrSubmitted is returned by every transition once the survey is submitted.
	ErrSubmitted = errors.New("flow: survey already submitted")
)
