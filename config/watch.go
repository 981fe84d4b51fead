package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

const reloadDebounce = 100 * time.Millisecond

// TuningWatcher reloads a tuning file whenever it changes on disk
type TuningWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	Updates chan Tuning
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewTuningWatcher watches the directory holding path so that editors
// replacing the file by rename are picked up too
func NewTuningWatcher(path string) (*TuningWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	tw := &TuningWatcher{
		path:    abs,
		watcher: w,
		Updates: make(chan Tuning, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go tw.run()
	return tw, nil
}

// Close stops the watcher and closes Updates
func (tw *TuningWatcher) Close() error {
	var err error
	tw.once.Do(func() {
		close(tw.closeCh)
		err = tw.watcher.Close()
		<-tw.done
		close(tw.Updates)
	})
	return err
}

// run reloads once the file has been quiet for reloadDebounce, so a save
// that truncates and then writes is read only when complete
func (tw *TuningWatcher) run() {
	defer close(tw.done)
	timer := time.NewTimer(reloadDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != tw.path {
				continue
			}
			timer.Reset(reloadDebounce)
		case <-timer.C:
			t, err := LoadTuning(tw.path)
			if err != nil {
				log.WithError(err).WithField("file", tw.path).Warn("Ignoring invalid tuning file")
				continue
			}
			log.WithField("file", tw.path).Info("Tuning reloaded")
			tw.publish(t)
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("Tuning watcher error")
		case <-tw.closeCh:
			return
		}
	}
}

// publish keeps only the newest tuning when the consumer lags behind
func (tw *TuningWatcher) publish(t Tuning) {
	select {
	case tw.Updates <- t:
		return
	default:
	}
	select {
	case <-tw.Updates:
	default:
	}
	select {
	case tw.Updates <- t:
	default:
	}
}
