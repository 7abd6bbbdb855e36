package ears

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConfigurationError_Error tests ConfigurationError formatting.
func TestConfigurationError_Error(t *testing.T) {
	err := &ConfigurationError{Field: "ModulesToScan", Err: ErrNoModules}
	assert.Equal(t, "ears: invalid configuration: ModulesToScan: no modules were configured", err.Error())

	err = &ConfigurationError{Err: ErrNilOptions}
	assert.Equal(t, "ears: invalid configuration: options cannot be nil", err.Error())
}

// TestConfigurationError_Unwrap tests sentinel matching.
func TestConfigurationError_Unwrap(t *testing.T) {
	err := &ConfigurationError{Field: "resolver", Err: ErrNilResolver}
	assert.ErrorIs(t, err, ErrNilResolver)
}

// TestResolutionError_Error tests ResolutionError formatting.
func TestResolutionError_Error(t *testing.T) {
	underlying := errors.New("no such service")
	err := &ResolutionError{
		EventType:    TypeOf[greeting](),
		ListenerType: TypeOf[*firstListener](),
		Err:          underlying,
	}

	assert.Equal(t, "resolve listener *ears.firstListener for ears.greeting: no such service", err.Error())
	assert.ErrorIs(t, err, underlying)
}

// TestListenerExecutionError_Error tests ListenerExecutionError formatting.
func TestListenerExecutionError_Error(t *testing.T) {
	underlying := errors.New("disk full")
	err := &ListenerExecutionError{
		EventType:    TypeOf[ping](),
		ListenerType: TypeOf[*failingListener](),
		Err:          underlying,
	}

	assert.Equal(t, "listener *ears.failingListener handling ears.ping: disk full", err.Error())
	assert.ErrorIs(t, err, underlying)
}

// TestPanicError_Error tests PanicError formatting.
func TestPanicError_Error(t *testing.T) {
	err := &PanicError{Value: "unexpected nil", Stack: "goroutine 1 [running]:\n..."}
	assert.Equal(t, "panic: unexpected nil", err.Error())
}

func TestTypeName_Nil(t *testing.T) {
	err := &ResolutionError{Err: ErrNilListener}
	assert.Equal(t, "resolve listener <nil> for <nil>: resolver returned nil listener", err.Error())
}
