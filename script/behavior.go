// Package script attaches tengo-scripted behavior to sandbox objects.
// A behavior implements the weld and drag listener capabilities, so
// creators can react to welding and grabbing without recompiling.
package script

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// lifecycleDispatch routes a single compiled script to the hook named
// by __event. Scripts must define all six hooks.
const lifecycleDispatch = `
if __event == "weld" { onWeld(__state) }
if __event == "unweld" { onUnweld(__state) }
if __event == "added" { onAdded(__state) }
if __event == "removed" { onRemoved(__state) }
if __event == "grab" { onGrab(__state) }
if __event == "release" { onRelease(__state) }
`

// Behavior is a compiled tengo script with persistent per-object state.
type Behavior struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
}

// NewBehavior compiles src with the lifecycle dispatcher appended.
func NewBehavior(name string, src []byte) (*Behavior, error) {
	full := string(src) + "\n" + lifecycleDispatch
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__event", "")
	_ = s.Add("__state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Behavior{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

func (b *Behavior) OnWeld()    { b.dispatch("weld") }
func (b *Behavior) OnUnweld()  { b.dispatch("unweld") }
func (b *Behavior) OnAdded()   { b.dispatch("added") }
func (b *Behavior) OnRemoved() { b.dispatch("removed") }
func (b *Behavior) OnGrab()    { b.dispatch("grab") }
func (b *Behavior) OnRelease() { b.dispatch("release") }

// State returns a value written by the script into its state map.
func (b *Behavior) State(key string) (tengo.Object, bool) {
	if b == nil || b.state == nil {
		return nil, false
	}
	v, ok := b.state.Value[key]
	return v, ok
}

func (b *Behavior) dispatch(event string) {
	if b == nil || b.compiled == nil {
		return
	}
	if err := b.compiled.Set("__event", event); err != nil {
		log.Printf("script: %s set event: %v", b.name, err)
		return
	}
	if err := b.compiled.Set("__state", b.state); err != nil {
		log.Printf("script: %s set state: %v", b.name, err)
		return
	}
	if err := b.compiled.Run(); err != nil {
		log.Printf("script: %s %s hook: %v", b.name, event, err)
	}
}
