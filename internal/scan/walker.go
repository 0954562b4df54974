package scan

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/seliv/dirscope/internal/tree"
)

// walker performs one recursive walk. It runs on its own goroutine and
// touches the engine only through emit/finish and the read-only options.
type walker struct {
	engine   *Engine
	limiter  *rate.Limiter
	rootInfo os.FileInfo

	dirs       int64
	files      int64
	bytes      int64
	unreadable int
}

var errAborted = errors.New("scan aborted")

func (w *walker) run(ctx context.Context, url string) {
	w.engine.emit(Started{URL: url})

	root := &tree.Item{
		Name:  url,
		Kind:  tree.KindDir,
		Size:  w.rootInfo.Size(),
		MTime: w.rootInfo.ModTime(),
	}
	rootDev := deviceID(w.rootInfo)

	err := w.readDir(ctx, root, url, rootDev)
	if errors.Is(err, errAborted) {
		w.engine.finish(nil, 0, true)
		return
	}

	t := tree.New(url, root)
	t.Finalize()
	w.engine.finish(t, w.unreadable, false)
}

// readDir fills item with the children of path. Unreadable directories are
// marked and counted but never abort the walk; only cancellation does.
func (w *walker) readDir(ctx context.Context, item *tree.Item, path string, dev uint64) error {
	if ctx.Err() != nil {
		return errAborted
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			item.ReadState = tree.ReadPermissionDenied
		} else {
			item.ReadState = tree.ReadError
		}
		w.unreadable++
		return nil
	}
	w.dirs++
	w.progress(path)

	var subdirs, plainFiles []*tree.Item
	for _, entry := range entries {
		fi, err := entry.Info() // lstat; symlinks are not followed
		if err != nil {
			continue
		}
		child := &tree.Item{
			Name:  entry.Name(),
			Size:  fi.Size(),
			MTime: fi.ModTime(),
		}
		if entry.IsDir() {
			child.Kind = tree.KindDir
			subdirs = append(subdirs, child)
		} else {
			child.Kind = tree.KindFile
			w.files++
			w.bytes += fi.Size()
			plainFiles = append(plainFiles, child)
		}
	}

	// A directory holding both subdirectories and plain files gets a
	// pseudo directory aggregating the files, so they sort as one block.
	if len(subdirs) > 0 && len(plainFiles) > 0 {
		pseudo := &tree.Item{Name: tree.PseudoDirName, Kind: tree.KindPseudoDir}
		for _, f := range plainFiles {
			pseudo.AddChild(f)
		}
		item.AddChild(pseudo)
	} else {
		for _, f := range plainFiles {
			item.AddChild(f)
		}
	}

	for _, sub := range subdirs {
		item.AddChild(sub)
		subPath := filepath.Join(path, sub.Name)

		if w.excluded(sub.Name) && !w.allowedExcluded(subPath) {
			sub.Excluded = true
			continue
		}

		fi, err := os.Lstat(subPath)
		if err != nil {
			sub.ReadState = tree.ReadError
			w.unreadable++
			continue
		}
		subDev := deviceID(fi)
		if subDev != dev && subDev != 0 {
			sub.MountPoint = true
			if !w.engine.opts.CrossFilesystems && !w.allowedMount(subPath) {
				continue
			}
		}

		if err := w.readDir(ctx, sub, subPath, subDev); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) excluded(name string) bool {
	for _, pattern := range w.engine.opts.ExcludePatterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (w *walker) allowedExcluded(path string) bool {
	w.engine.mu.Lock()
	defer w.engine.mu.Unlock()
	return w.engine.allowExcluded[path]
}

func (w *walker) allowedMount(path string) bool {
	w.engine.mu.Lock()
	defer w.engine.mu.Unlock()
	return w.engine.allowMount[path]
}

func (w *walker) progress(current string) {
	if !w.limiter.Allow() {
		return
	}
	w.engine.emit(Progress{
		Dirs:        w.dirs,
		Files:       w.files,
		Bytes:       w.bytes,
		CurrentPath: current,
	})
}
