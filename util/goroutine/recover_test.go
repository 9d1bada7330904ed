package goroutine

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecover_NoPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core).Sugar()

	func() {
		defer Recover("quiet", logger)
	}()

	assert.Zero(t, logs.Len())
}

func TestRecover_StringPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core).Sugar()

	func() {
		defer Recover("string-panic-goroutine", logger)
		panic("test panic message")
	}()

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Goroutine panic recovered", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "string-panic-goroutine", fields["goroutine"])
	assert.Equal(t, "test panic message", fields["panic"])
	stack, ok := fields["stack"].(string)
	require.True(t, ok)
	assert.Contains(t, stack, "goroutine")
}

func TestRecover_WithNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		defer Recover("no-logger", nil)
		panic("boom")
	})
}

func TestRecoverError_ReportsPanic(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()

	run := func() (err error) {
		defer RecoverError("count_vendors", logger, &err)
		panic(errors.New("nil map"))
	}

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count_vendors")
	assert.Contains(t, err.Error(), "nil map")
}

func TestRecoverError_KeepsReturnedError(t *testing.T) {
	sentinel := errors.New("storage down")
	run := func() (err error) {
		defer RecoverError("find_products", nil, &err)
		return sentinel
	}
	assert.Same(t, sentinel, run())
}

func TestRecoverError_Concurrent(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core).Sugar()

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			func() {
				defer RecoverError("worker", logger, &errs[i])
				if i%2 == 0 {
					panic(i)
				}
			}()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if i%2 == 0 {
			assert.Error(t, err)
		} else {
			assert.NoError(t, err)
		}
	}
	assert.Equal(t, 3, logs.Len())
}
