package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ModifyQueue_ImmediateRejectedOutsideRaise(t *testing.T) {
	// Arrange (S5)
	queue := newModifyQueue(noopLogger{})

	// Act
	err := queue.Add("key", func() error { return nil }, AddOptions{Immediate: true})

	// Assert
	assert.NotNil(t, err)
	assert.Equal(t, CodeImmediateNotPermitted, err.Code)
}

func Test_ModifyQueue_ImmediatePreemptsNextDeferred(t *testing.T) {
	// Arrange (S5): a deferred command schedules an immediate inside the raise
	queue := newModifyQueue(noopLogger{})
	var order []string

	assert.Nil(t, queue.Add("key", func() error {
		order = append(order, "deferred-1")
		_ = queue.Add("key", func() error {
			order = append(order, "immediate")
			return nil
		}, AddOptions{Immediate: true, IgnoreLoop: true})
		return nil
	}, AddOptions{Timing: 0}))
	assert.Nil(t, queue.Add("key", func() error {
		order = append(order, "deferred-2")
		return nil
	}, AddOptions{Timing: 1}))

	// Act
	err := queue.Raise("key", false, false)

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, []string{"deferred-1", "immediate", "deferred-2"}, order)
}

func Test_ModifyQueue_LoopGuardRejectsAddWhileExecuting(t *testing.T) {
	// Arrange (S6)
	queue := newModifyQueue(noopLogger{})
	var innerErr *ECSError
	assert.Nil(t, queue.Add("key", func() error {
		innerErr = queue.Add("key", func() error { return nil }, AddOptions{})
		return nil
	}, AddOptions{}))

	// Act
	assert.Nil(t, queue.Raise("key", false, false))

	// Assert
	assert.NotNil(t, innerErr)
	assert.Equal(t, CodeLoopGuard, innerErr.Code)
}

func Test_ModifyQueue_IgnoreLoopAllowsReentrantAdd(t *testing.T) {
	// Arrange (S6)
	queue := newModifyQueue(noopLogger{})
	ran := false
	assert.Nil(t, queue.Add("key", func() error {
		return queue.Add("key", func() error {
			ran = true
			return nil
		}, AddOptions{IgnoreLoop: true})
	}, AddOptions{}))

	// Act: first raise enqueues the nested command but does not run it yet
	assert.Nil(t, queue.Raise("key", false, false))
	assert.False(t, ran)

	// Act: second raise runs it
	assert.Nil(t, queue.Raise("key", false, false))

	// Assert
	assert.True(t, ran)
}

func Test_ModifyQueue_ReentryRejectsNestedRaise(t *testing.T) {
	// Arrange
	queue := newModifyQueue(noopLogger{})
	var nestedErr *ECSError
	assert.Nil(t, queue.Add("key", func() error {
		nestedErr = queue.Raise("key", false, false)
		return nil
	}, AddOptions{}))

	// Act
	assert.Nil(t, queue.Raise("key", false, false))

	// Assert
	assert.NotNil(t, nestedErr)
	assert.Equal(t, CodeReentry, nestedErr.Code)
}

func Test_ModifyQueue_DeferredOrderingIsAscendingByTiming(t *testing.T) {
	// Arrange (testable property 6)
	queue := newModifyQueue(noopLogger{})
	var order []int32
	for _, timing := range []int32{5, 1, 3} {
		timing := timing
		assert.Nil(t, queue.Add("key", func() error {
			order = append(order, timing)
			return nil
		}, AddOptions{Timing: timing}))
	}

	// Act
	assert.Nil(t, queue.Raise("key", false, false))

	// Assert
	assert.Equal(t, []int32{1, 3, 5}, order)
}

func Test_ModifyQueue_FailedCommandIsLoggedNotPropagated(t *testing.T) {
	// Arrange
	queue := newModifyQueue(noopLogger{})
	assert.Nil(t, queue.Add("key", func() error { return assertError{} }, AddOptions{}))
	ranAfter := false
	assert.Nil(t, queue.Add("key", func() error { ranAfter = true; return nil }, AddOptions{Timing: 1}))

	// Act
	err := queue.Raise("key", false, false)

	// Assert
	assert.Nil(t, err)
	assert.True(t, ranAfter)
}

type assertError struct{}

func (assertError) Error() string { return "boom" }

func Test_ModifyQueue_TryAddReportsBoolean(t *testing.T) {
	// Arrange
	queue := newModifyQueue(noopLogger{})

	// Act & Assert
	assert.False(t, queue.TryAdd("key", func() error { return nil }, AddOptions{Immediate: true}))
	assert.True(t, queue.TryAdd("key", func() error { return nil }, AddOptions{}))
}
