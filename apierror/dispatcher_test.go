package apierror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/authsession/client"
	"github.com/viant/authsession/metrics"
)

// recorder captures every collaborator call in order.
type recorder struct {
	events   []string
	clearErr error
}

func (r *recorder) CancelAllRequests()           { r.events = append(r.events, "cancel") }
func (r *recorder) Replace(route string)         { r.events = append(r.events, "replace:"+route) }
func (r *recorder) AddErrorToast(message string) { r.events = append(r.events, "toast:"+message) }
func (r *recorder) SetErrors(errors map[string]any) {
	r.events = append(r.events, fmt.Sprintf("form:%d", len(errors)))
}
func (r *recorder) Clear() error {
	r.events = append(r.events, "clear")
	return r.clearErr
}

func newDispatcher(r *recorder, options ...Option) *Dispatcher {
	return New(r, r, r, r, r, options...)
}

func TestDispatcher_Handle(t *testing.T) {
	fieldErrors := map[string]any{"email": map[string]any{"code": "validation_invalid_email", "message": "Invalid email."}}

	var testCases = []struct {
		description    string
		err            error
		notify         bool
		defaultMessage string
		expect         []string
	}{
		{
			description: "nil error",
			err:         nil,
			notify:      true,
		},
		{
			description: "nil client error",
			err:         (*client.Error)(nil),
			notify:      true,
		},
		{
			description: "aborted request",
			err:         &client.Error{IsAbort: true, Status: 401, Response: map[string]any{"message": "ignored"}},
			notify:      true,
		},
		{
			description: "context cancelled",
			err:         fmt.Errorf("load: %w", context.Canceled),
			notify:      true,
		},
		{
			description: "unauthenticated",
			err:         &client.Error{Status: 401, Response: map[string]any{"message": "The request requires valid record authorization token."}},
			notify:      true,
			expect:      []string{"toast:The request requires valid record authorization token.", "cancel", "clear", "replace:/login"},
		},
		{
			description: "unauthenticated without notification",
			err:         &client.Error{Status: 401},
			notify:      false,
			expect:      []string{"cancel", "clear", "replace:/login"},
		},
		{
			description: "forbidden",
			err:         &client.Error{Status: 403, Response: map[string]any{"message": "Forbidden."}},
			notify:      true,
			expect:      []string{"toast:Forbidden.", "cancel", "replace:/"},
		},
		{
			description: "validation errors",
			err:         &client.Error{Status: 400, Response: map[string]any{"message": "Failed to create record.", "data": fieldErrors}},
			notify:      true,
			expect:      []string{"toast:Failed to create record.", "form:1"},
		},
		{
			description: "server error",
			err:         &client.Error{Status: 500, Response: map[string]any{"message": "Internal error."}},
			notify:      true,
			expect:      []string{"toast:Internal error."},
		},
		{
			description:    "plain error uses own message",
			err:            errors.New("connection refused"),
			notify:         true,
			defaultMessage: "fallback",
			expect:         []string{"toast:connection refused"},
		},
		{
			description:    "empty body uses the generic error message",
			err:            &client.Error{Status: 404, Response: map[string]any{}},
			notify:         true,
			defaultMessage: "Missing.",
			expect:         []string{"toast:Something went wrong while processing your request."},
		},
		{
			description:    "error without message uses default message",
			err:            errors.New(""),
			notify:         true,
			defaultMessage: "Failed to load.",
			expect:         []string{"toast:Failed to load."},
		},
		{
			description: "wrapped unauthenticated",
			err:         fmt.Errorf("refresh: %w", &client.Error{Status: 401}),
			notify:      false,
			expect:      []string{"cancel", "clear", "replace:/login"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			r := &recorder{}
			err := newDispatcher(r).Handle(testCase.err, testCase.notify, testCase.defaultMessage)
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, r.events)
		})
	}
}

func TestDispatcher_LogoutFailure(t *testing.T) {
	clearErr := errors.New("storage unavailable")
	r := &recorder{clearErr: clearErr}
	err := newDispatcher(r).HandleDefault(&client.Error{Status: 401})
	assert.ErrorIs(t, err, clearErr)
	assert.Equal(t, []string{"cancel", "clear"}, r.events)
}

func TestDispatcher_Logout(t *testing.T) {
	r := &recorder{}
	d := newDispatcher(r)
	require.NoError(t, d.Logout(false))
	assert.Equal(t, []string{"clear"}, r.events)
	require.NoError(t, d.Logout(true))
	assert.Equal(t, []string{"clear", "clear", "replace:/login"}, r.events)
}

func TestDispatcher_Metrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	d := newDispatcher(&recorder{}, WithMetrics(m))
	_ = d.Handle(&client.Error{Status: 403}, false, "")
	_ = d.Handle(&client.Error{IsAbort: true}, false, "")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispatchedErrors.WithLabelValues("forbidden")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DispatchedErrors.WithLabelValues("abort")))
}

func TestClassify(t *testing.T) {
	var testCases = []struct {
		description string
		err         error
		expect      *Classified
	}{
		{description: "nil", err: nil, expect: nil},
		{description: "nil client error", err: (*client.Error)(nil), expect: nil},
		{
			description: "status defaults to 400",
			err:         &client.Error{Err: errors.New("dial tcp: refused")},
			expect:      &Classified{Status: 400, Message: "dial tcp: refused"},
		},
		{
			description: "status truncated to 32 bits",
			err:         &client.Error{Status: 1<<32 + 403, Response: map[string]any{"message": "m"}},
			expect:      &Classified{Status: 403, Message: "m"},
		},
		{
			description: "abort via sentinel",
			err:         fmt.Errorf("x: %w", client.ErrAborted),
			expect:      &Classified{Status: 400, Message: "x: request was cancelled", IsAbort: true},
		},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Classify(testCase.err, ""), testCase.description)
	}
}
