package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says which reloadable asset class an on-disk edit touched.
// Tuning edits apply to the live coordinator; object and script edits
// only affect entities spawned afterwards.
type ChangeKind int

const (
	ChangeTuning ChangeKind = iota
	ChangeObject
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeObject:
		return "object"
	case ChangeScript:
		return "script"
	default:
		return "tuning"
	}
}

// Change is one debounced edit notification.
type Change struct {
	Kind ChangeKind
	Name string
}

const debounceWindow = 100 * time.Millisecond

// Watcher reports edits to the on-disk prefab tree (tuning.yaml,
// objects/*.yaml, scripts/*.tengo) so the game can hot-reload without a
// restart. Notifications are classified and debounced per file.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches the prefab root plus its objects/ and scripts/
// subdirectories. The subdirectories are optional on disk; only a
// missing root is an error.
func NewWatcher(root string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(root); err != nil {
		_ = fs.Close()
		return nil, err
	}
	for _, sub := range []string{"objects", "scripts"} {
		_ = fs.Add(filepath.Join(root, sub))
	}

	w := &Watcher{
		fs:      fs,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			change, ok := classifyChange(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < debounceWindow {
				continue
			}
			last[event.Name] = now
			w.Changes <- change
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.Errors <- err
		case <-w.closeCh:
			return
		}
	}
}

// classifyChange maps a changed path onto the asset class it belongs
// to. Anything outside the known classes (editor temp files, README)
// is dropped.
func classifyChange(path string) (Change, bool) {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case name == "tuning.yaml":
		return Change{Kind: ChangeTuning, Name: name}, true
	case ext == ".tengo":
		return Change{Kind: ChangeScript, Name: name}, true
	case ext == ".yaml" || ext == ".yml":
		return Change{Kind: ChangeObject, Name: name}, true
	}
	return Change{}, false
}
