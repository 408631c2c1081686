package component

import "github.com/milk9111/sandbox/ecs"

// WeldListener is the capability collaborators implement to react to
// weld-group membership changes. Listeners are discovered by scene
// traversal, never by concrete type.
type WeldListener interface {
	// OnWeld fires when the listener's object transitions solo -> grouped.
	OnWeld()
	// OnUnweld fires when the listener's object transitions grouped -> solo.
	OnUnweld()
	// OnAdded fires on every successful join involving the object.
	OnAdded()
	// OnRemoved fires on every unjoin involving the object.
	OnRemoved()
}

// DragListener is the capability collaborators implement to react to
// drag lifecycle transitions (e.g. disabling AI while grabbed).
type DragListener interface {
	OnGrab()
	OnRelease()
}

var (
	WeldListenerComponent = ecs.NewComponent[WeldListener]()
	DragListenerComponent = ecs.NewComponent[DragListener]()
)

// WeldHooks adapts plain funcs to WeldListener. Nil funcs are skipped.
type WeldHooks struct {
	Weld    func()
	Unweld  func()
	Added   func()
	Removed func()
}

func (h WeldHooks) OnWeld() {
	if h.Weld != nil {
		h.Weld()
	}
}

func (h WeldHooks) OnUnweld() {
	if h.Unweld != nil {
		h.Unweld()
	}
}

func (h WeldHooks) OnAdded() {
	if h.Added != nil {
		h.Added()
	}
}

func (h WeldHooks) OnRemoved() {
	if h.Removed != nil {
		h.Removed()
	}
}

// DragHooks adapts plain funcs to DragListener. Nil funcs are skipped.
type DragHooks struct {
	Grab    func()
	Release func()
}

func (h DragHooks) OnGrab() {
	if h.Grab != nil {
		h.Grab()
	}
}

func (h DragHooks) OnRelease() {
	if h.Release != nil {
		h.Release()
	}
}
