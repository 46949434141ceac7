package auth

import (
	"context"
	"strings"
)

// FlowState is the step the verification flow is on.
type FlowState string

const (
	StateEmailInput FlowState = "EMAIL_INPUT"
	StateCodeInput  FlowState = "CODE_INPUT"
	StateSuccess    FlowState = "SUCCESS"
	StateError      FlowState = "ERROR"
)

// Verifier is the external collaborator the flow drives. Client (the
// HTTP implementation) and CodeStoreVerifier both satisfy it.
type Verifier interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
}

// Flow is the two-step email verification state machine:
// EMAIL_INPUT -> CODE_INPUT -> SUCCESS | ERROR, with "change email"
// back to EMAIL_INPUT and retry back to CODE_INPUT.
type Flow struct {
	verifier Verifier
	state    FlowState
	email    string
	lastErr  error
}

func NewFlow(verifier Verifier) *Flow {
	return &Flow{
		verifier: verifier,
		state:    StateEmailInput,
	}
}

func (f *Flow) State() FlowState { return f.state }

func (f *Flow) Email() string { return f.email }

// Err returns the error behind the current ERROR state, nil otherwise.
func (f *Flow) Err() error {
	if f.state != StateError {
		return nil
	}
	return f.lastErr
}

// SubmitEmail requests a code for the email and advances to
// CODE_INPUT. Validation failures keep the flow on EMAIL_INPUT.
func (f *Flow) SubmitEmail(ctx context.Context, email string) error {
	if f.state != StateEmailInput {
		return nil
	}
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if err := f.verifier.RequestCode(ctx, email); err != nil {
		return err
	}
	f.email = email
	f.state = StateCodeInput
	return nil
}

// SubmitCode validates the pair. Success is terminal; failure moves to
// ERROR, from which Retry returns to CODE_INPUT.
func (f *Flow) SubmitCode(ctx context.Context, code string) error {
	if f.state != StateCodeInput {
		return nil
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrCodeMismatch
	}
	if err := f.verifier.VerifyCode(ctx, f.email, code); err != nil {
		f.state = StateError
		f.lastErr = err
		return err
	}
	f.state = StateSuccess
	f.lastErr = nil
	return nil
}

// ChangeEmail returns to EMAIL_INPUT, discarding the pending email.
func (f *Flow) ChangeEmail() {
	if f.state == StateSuccess {
		return
	}
	f.state = StateEmailInput
	f.email = ""
	f.lastErr = nil
}

// Retry returns from ERROR to CODE_INPUT so another code can be tried.
func (f *Flow) Retry() {
	if f.state != StateError {
		return
	}
	f.state = StateCodeInput
	f.lastErr = nil
}

// CodeStoreVerifier adapts a local CodeStore to the Verifier
// interface, for setups without the HTTP hop.
type CodeStoreVerifier struct {
	Codes *CodeStore
}

func (v CodeStoreVerifier) RequestCode(ctx context.Context, email string) error {
	_, err := v.Codes.Issue(email)
	return err
}

func (v CodeStoreVerifier) VerifyCode(ctx context.Context, email, code string) error {
	return v.Codes.Verify(email, code)
}
