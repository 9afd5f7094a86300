package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/tallybook/backend/internal/storage"
)

// Restore replaces the live document tree with the contents of the archive:
//
//  1. The archive is extracted into a staging directory, never into the
//     live tree.
//  2. The staged tree must contain a config or accounts group, otherwise
//     the archive is rejected and the live tree stays untouched.
//  3. The live tree is copied into a safety copy below the backup
//     directory.
//  4. Every group present in staging replaces its live counterpart; groups
//     absent from the archive are left alone.
//
// A failure during step 4 reinstates the safety copy automatically and is
// reported as a *RestoreError naming the safety copy location.
func (e *Engine) Restore(archivePath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Staging below the data directory keeps the final renames on one
	// filesystem.
	staging, err := os.MkdirTemp(e.dataDir, ".restore-staging-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := extract(archivePath, staging); err != nil {
		return err
	}

	if !dirExists(filepath.Join(staging, storage.GroupConfig)) && !dirExists(filepath.Join(staging, storage.GroupAccounts)) {
		return fmt.Errorf("%w: it contains neither a config nor an accounts directory", ErrInvalidArchive)
	}

	safety := filepath.Join(e.backupDir, safetyCopyPrefix+time.Now().In(time.UTC).Format(archiveTimeFormat))
	if err := e.copyLiveTree(safety); err != nil {
		os.RemoveAll(safety)
		return fmt.Errorf("creating safety copy: %w", err)
	}

	for _, group := range storage.Groups {
		staged := filepath.Join(staging, group)
		if !dirExists(staged) {
			continue
		}

		live := filepath.Join(e.dataDir, group)
		if err := e.removeDir(live); err != nil {
			return e.rollback(safety, group, err)
		}

		if err := e.renameDir(staged, live); err != nil {
			return e.rollback(safety, group, err)
		}
	}

	os.RemoveAll(safety)
	e.log.Info().Str("archive", filepath.Base(archivePath)).Msg("backup restored")
	return nil
}

// rollback reinstates every group from the safety copy after a failed swap.
// The safety copy is kept on disk either way so the previous state stays
// recoverable by hand.
func (e *Engine) rollback(safety, group string, cause error) error {
	restoreErr := &RestoreError{
		Group:      group,
		SafetyCopy: safety,
		Err:        cause,
	}

	for _, g := range storage.Groups {
		source := filepath.Join(safety, g)
		live := filepath.Join(e.dataDir, g)

		// A group absent from the safety copy did not exist before the
		// restore; whatever the failed swap left behind has to go too.
		if err := os.RemoveAll(live); err != nil {
			restoreErr.RollbackErr = err
			return restoreErr
		}

		if !dirExists(source) {
			continue
		}

		if err := copyDir(source, live); err != nil {
			restoreErr.RollbackErr = err
			return restoreErr
		}
	}

	restoreErr.RolledBack = true
	e.log.Error().Err(cause).Str("group", group).Str("safetyCopy", safety).Msg("restore failed, previous state reinstated")
	return restoreErr
}

// copyLiveTree copies every collection group into the target directory.
func (e *Engine) copyLiveTree(target string) error {
	for _, group := range storage.Groups {
		source := filepath.Join(e.dataDir, group)
		if !dirExists(source) {
			continue
		}

		if err := copyDir(source, filepath.Join(target, group)); err != nil {
			return err
		}
	}

	return nil
}

// extract unpacks the archive into the target directory. Entries escaping
// the target are rejected.
func extract(archivePath, target string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer reader.Close()

	reader.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	for _, file := range reader.File {
		path := filepath.Join(target, filepath.FromSlash(file.Name))
		if !strings.HasPrefix(path, target+string(os.PathSeparator)) {
			return fmt.Errorf("%w: entry %q escapes the archive root", ErrInvalidArchive, file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return fmt.Errorf("extracting %s: %w", file.Name, err)
			}
			continue
		}

		if err := extractFile(file, path); err != nil {
			return fmt.Errorf("extracting %s: %w", file.Name, err)
		}
	}

	return nil
}

func extractFile(file *zip.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	source, err := file.Open()
	if err != nil {
		return err
	}
	defer source.Close()

	target, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(target, source); err != nil {
		target.Close()
		return err
	}

	return target.Close()
}

func copyDir(source, target string) error {
	return filepath.WalkDir(source, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return os.MkdirAll(filepath.Join(target, rel), 0o755)
		}

		return copyFile(path, filepath.Join(target, rel))
	})
}

func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
