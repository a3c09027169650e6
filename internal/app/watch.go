package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/five82/codelens/internal/imagefile"
)

// DefaultSettle is how long a new file must stay quiet before it is handled.
const DefaultSettle = 500 * time.Millisecond

// Watch calls handle for every supported image created in dir, once writes to
// it have stopped for settle. Files are handled one at a time in the order
// they settle. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, dir string, settle time.Duration, handle func(context.Context, string)) error {
	if settle <= 0 {
		settle = DefaultSettle
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		ready   = make(chan string)
	)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !imagefile.Supported(event.Name) {
				continue
			}
			name := event.Name
			mu.Lock()
			if t, seen := pending[name]; seen {
				t.Reset(settle)
			} else {
				pending[name] = time.AfterFunc(settle, func() {
					select {
					case ready <- name:
					case <-ctx.Done():
					}
				})
			}
			mu.Unlock()

		case name := <-ready:
			mu.Lock()
			_, live := pending[name]
			delete(pending, name)
			mu.Unlock()
			if live {
				handle(ctx, name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				log.Printf("watch %s: events dropped, some images may be skipped", dir)
				continue
			}
			log.Printf("watch %s failed: %v", dir, err)
		}
	}
}
