package build

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/projectorcli/projector/internal/buildcfg"
)

// pollInterval is the stat fallback for filesystems that drop events.
const pollInterval = 2 * time.Second

// Watch runs Scripts once and then re-runs it whenever buildout.cfg
// changes, after a debounce window so a burst of writes triggers a single
// rebuild. A failing rebuild is reported and watching continues; the watch
// stops cleanly on context cancellation.
func (p *Pipeline) Watch(ctx context.Context) error {
	p.runOnce(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace buildout.cfg by
	// rename, which drops a watch on the file itself.
	if err := watcher.Add(p.dir); err != nil {
		return err
	}

	triggers := make(chan struct{}, 1)
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return p.watchEvents(ctx, watcher, triggers)
	})
	group.Go(func() error {
		return p.rebuildLoop(ctx, triggers)
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// watchEvents feeds a trigger for every relevant change of buildout.cfg,
// from fsnotify events or the poll fallback.
func (p *Pipeline) watchEvents(ctx context.Context, watcher *fsnotify.Watcher, triggers chan<- struct{}) error {
	lastSeen := p.configModTime()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != buildcfg.DefaultName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			lastSeen = p.configModTime()
			trigger(triggers)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)
		case <-ticker.C:
			if mod := p.configModTime(); mod.After(lastSeen) {
				lastSeen = mod
				trigger(triggers)
			}
		}
	}
}

// rebuildLoop coalesces trigger bursts within the debounce window and runs
// one rebuild per settled burst.
func (p *Pipeline) rebuildLoop(ctx context.Context, triggers <-chan struct{}) error {
	debounce := p.cfg.Watch.Debounce
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-triggers:
		}

		timer := time.NewTimer(debounce)
	settle:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-triggers:
				timer.Reset(debounce)
			case <-timer.C:
				break settle
			}
		}

		p.printer.Info("buildout.cfg changed, rebuilding")
		p.runOnce(ctx)
	}
}

// runOnce runs the scripts pipeline, reporting a failure without stopping
// the watch.
func (p *Pipeline) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.Scripts(ctx); err != nil {
		p.printer.Failure("build failed: " + err.Error())
		log.Error("build failed", "err", err)
		return
	}
	p.printer.Success("build complete")
}

func (p *Pipeline) configModTime() time.Time {
	info, err := os.Stat(p.configPath())
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// trigger sends without blocking; a pending trigger already covers the
// change.
func trigger(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
