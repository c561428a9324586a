package input_test

import (
	"testing"
	"time"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(a input.Action) {
	m.Called(a)
}

func newController() (*input.Controller, *engine.Timers, *mockDispatcher) {
	timers := engine.NewTimers()
	target := &mockDispatcher{}
	target.On("Dispatch", mock.Anything).Return()
	return input.NewController(timers, target, input.DefaultTiming()), timers, target
}

func TestPressFiresImmediately(t *testing.T) {
	ctrl, _, target := newController()

	ctrl.Press(input.RotateCW)
	ctrl.Press(input.Hold)

	target.AssertNumberOfCalls(t, "Dispatch", 2)
	target.AssertCalled(t, "Dispatch", input.RotateCW)
	target.AssertCalled(t, "Dispatch", input.Hold)
	assert.False(t, ctrl.Held(input.RotateCW))
}

func TestAutoRepeat(t *testing.T) {
	ctrl, timers, target := newController()

	ctrl.Press(input.Left)
	target.AssertNumberOfCalls(t, "Dispatch", 1)
	assert.True(t, ctrl.Held(input.Left))

	timers.Advance(149 * time.Millisecond)
	target.AssertNumberOfCalls(t, "Dispatch", 1)

	timers.Advance(time.Millisecond)
	target.AssertNumberOfCalls(t, "Dispatch", 2)

	// 150ms delay then one repeat every 50ms
	timers.Advance(200 * time.Millisecond)
	target.AssertNumberOfCalls(t, "Dispatch", 6)

	ctrl.Release(input.Left)
	assert.False(t, ctrl.Held(input.Left))

	timers.Advance(time.Second)
	target.AssertNumberOfCalls(t, "Dispatch", 6)
	assert.Zero(t, timers.Len())
}

func TestReleaseBeforeDelayCancelsRepeat(t *testing.T) {
	ctrl, timers, target := newController()

	ctrl.Press(input.Down)
	timers.Advance(100 * time.Millisecond)
	ctrl.Release(input.Down)
	timers.Advance(time.Second)

	target.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestRepeatsAreKeyedPerAction(t *testing.T) {
	ctrl, timers, target := newController()

	ctrl.Press(input.Left)
	ctrl.Press(input.Down)
	timers.Advance(150 * time.Millisecond)
	ctrl.Release(input.Left)
	timers.Advance(100 * time.Millisecond)

	// left: press + one repeat; down: press + repeats at 150, 200, 250
	target.AssertNumberOfCalls(t, "Dispatch", 6)
	assert.True(t, ctrl.Held(input.Down))
	assert.False(t, ctrl.Held(input.Left))
}

func TestDuplicatePressWhileHeldIsIgnored(t *testing.T) {
	ctrl, _, target := newController()

	ctrl.Press(input.Right)
	ctrl.Press(input.Right)

	target.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestTap(t *testing.T) {
	ctrl, timers, target := newController()

	ctrl.Tap(input.Right)
	timers.Advance(time.Second)

	target.AssertNumberOfCalls(t, "Dispatch", 1)
	assert.False(t, ctrl.Held(input.Right))
}

func TestUnbind(t *testing.T) {
	ctrl, timers, target := newController()

	ctrl.Press(input.Left)
	ctrl.Unbind()
	ctrl.Press(input.Confirm)
	timers.Advance(time.Second)

	target.AssertNumberOfCalls(t, "Dispatch", 1)
	assert.False(t, ctrl.Bound())

	ctrl.Bind()
	ctrl.Press(input.Confirm)
	target.AssertNumberOfCalls(t, "Dispatch", 2)
}

func TestSetTiming(t *testing.T) {
	ctrl, timers, target := newController()
	ctrl.SetTiming(input.Timing{Delay: 10 * time.Millisecond, Interval: 10 * time.Millisecond})

	ctrl.Press(input.Down)
	timers.Advance(30 * time.Millisecond)

	target.AssertNumberOfCalls(t, "Dispatch", 4)
}

func TestParseAction(t *testing.T) {
	for _, a := range input.Actions {
		parsed, err := input.ParseAction(a.String())
		assert.NoError(t, err)
		assert.Equal(t, a, parsed)
	}

	_, err := input.ParseAction("jump")
	assert.Error(t, err)
}

func TestRepeatable(t *testing.T) {
	repeatable := map[input.Action]bool{input.Left: true, input.Right: true, input.Down: true}
	for _, a := range input.Actions {
		assert.Equal(t, repeatable[a], a.Repeatable(), a.String())
	}
}
