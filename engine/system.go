package engine

// System is a behaviour run once per frame by the Scheduler. Systems may keep
// their own state between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
