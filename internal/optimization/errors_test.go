package optimization

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  ConfigurationError("boom"),
			want: "boom",
		},
		{
			name: "component and op",
			err:  ConfigurationError("boom").WithComponent("buffer").WithOperation("Push"),
			want: "buffer: Push: boom",
		},
		{
			name: "wrapped",
			err:  WrapErrorf(errors.New("cause"), "context %d", 2).WithOperation("Run"),
			want: "Run: context 2: cause",
		},
		{
			name: "numeric domain",
			err:  NumericDomainError(7, errors.New("x out of range")),
			want: "function evaluation failed at step 7: x out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	var nilErr *Error
	assert.Equal(t, "<nil>", nilErr.Error())
	assert.Nil(t, WrapErrorf(nil, "ignored %d", 1))
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		sentinel error
	}{
		{"configuration", ConfigurationError("no start point"), KindConfiguration, ErrConfiguration},
		{"buffer full", BufferFullError(16), KindBufferFull, ErrBufferFull},
		{"numeric domain", NumericDomainError(3, nil), KindNumericDomain, ErrNumericDomain},
		{"wrapped by fmt", fmt.Errorf("calculate: %w", ConfigurationError("missing")), KindConfiguration, ErrConfiguration},
		{"wrapped by WrapErrorf", WrapErrorf(BufferFullError(2), "gradient descent"), KindBufferFull, ErrBufferFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.True(t, errors.Is(tt.err, tt.sentinel))

			e, ok := IsOptimizationError(tt.err)
			require.True(t, ok)
			assert.NotNil(t, e)
		})
	}

	assert.False(t, errors.Is(&Error{Message: "plain", Step: -1}, ErrConfiguration))
	assert.False(t, errors.Is(ConfigurationError("x"), ErrNumericDomain))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))

	_, ok := IsOptimizationError(errors.New("plain"))
	assert.False(t, ok)
}

func TestWrapErrorfKeepsStep(t *testing.T) {
	err := WrapErrorf(NumericDomainError(7, errors.New("nan")), "gradient descent aborted after %d iterations", 2)
	assert.Equal(t, KindNumericDomain, err.Kind)
	assert.Equal(t, 7, err.Step)
	assert.Equal(t, "gradient descent aborted after 2 iterations: function evaluation failed at step 7: nan", err.Error())

	err = WrapErrorf(fmt.Errorf("outer: %w", ConfigurationError("missing")), "calculate")
	assert.Equal(t, KindConfiguration, err.Kind)
	assert.Equal(t, -1, err.Step)

	err = WrapErrorf(errors.New("plain"), "calculate")
	assert.Equal(t, KindUnknown, err.Kind)
	assert.Equal(t, -1, err.Step)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "configuration", KindConfiguration.String())
	assert.Equal(t, "buffer_full", KindBufferFull.String())
	assert.Equal(t, "numeric_domain", KindNumericDomain.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
