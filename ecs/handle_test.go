package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ComponentHandle_EqualIsValueIdentity(t *testing.T) {
	// Arrange
	store := newComponentStore("Position", 2, nil)
	handle := store.create(EntityID(1), testPosition{X: 1, Y: 2}, nil)

	// Act
	same := handle
	other := store.create(EntityID(2), testPosition{X: 3, Y: 4}, nil)

	// Assert
	assert.True(t, handle.Equal(same))
	assert.False(t, handle.Equal(other))
}

func Test_ComponentHandle_IsZero(t *testing.T) {
	// Arrange
	var zero ComponentHandle
	store := newComponentStore("Position", 1, nil)
	live := store.create(EntityID(1), testPosition{}, nil)

	// Act & Assert
	assert.True(t, zero.IsZero())
	assert.False(t, live.IsZero())
}

func Test_ComponentRef_ReadReturnsUnderlyingValue(t *testing.T) {
	// Arrange
	store := newComponentStore("Position", 1, nil)
	handle := store.create(EntityID(1), testPosition{X: 7, Y: 9}, nil)
	ref := NewComponentRef(handle)

	// Act
	value, err := ref.Read()

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, testPosition{X: 7, Y: 9}, value)
}

func Test_ComponentRef_TryNarrowRejectsWrongType(t *testing.T) {
	// Arrange
	store := newComponentStore("Position", 1, nil)
	handle := store.create(EntityID(1), testPosition{}, nil)
	ref := NewComponentRef(handle)

	// Act
	_, err := ref.TryNarrow("Velocity")

	// Assert
	assert.NotNil(t, err)
	assert.Equal(t, CodeTypeMismatch, err.Code)
}

func Test_ComponentRef_TryNarrowAcceptsMatchingType(t *testing.T) {
	// Arrange
	store := newComponentStore("Position", 1, nil)
	handle := store.create(EntityID(1), testPosition{}, nil)
	ref := NewComponentRef(handle)

	// Act
	narrowed, err := ref.TryNarrow("Position")

	// Assert
	assert.Nil(t, err)
	assert.True(t, narrowed.Live())
}

func Test_ComponentRef_ReadAfterDestroyIsRefCut(t *testing.T) {
	// Arrange
	store := newComponentStore("Position", 1, nil)
	handle := store.create(EntityID(1), testPosition{}, nil)
	ref := NewComponentRef(handle)
	assert.Nil(t, store.destroy(handle, nil))

	// Act
	_, err := ref.Read()

	// Assert
	assert.NotNil(t, err)
	assert.Equal(t, CodeRefCut, err.Code)
}
