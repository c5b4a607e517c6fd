package sandbox

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePath checks that relPath stays inside root once symlinks are
// resolved and returns the resolved absolute path. Absolute paths are
// rejected rather than rebased under the root. The path does not need
// to exist yet; the longest existing prefix is resolved and the remainder
// is appended as-is.
func ValidatePath(root, relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return "", fmt.Errorf("absolute path %q is not allowed; paths are relative to the working root", relPath)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolving root symlinks: %w", err)
	}

	candidate := filepath.Clean(filepath.Join(realRoot, relPath))
	resolved := resolveExisting(candidate)

	// Trailing separator so "root2" is not accepted as inside "root".
	if resolved != realRoot && !strings.HasPrefix(resolved, realRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q resolves to %q, outside the working root %q", relPath, resolved, realRoot)
	}
	return resolved, nil
}

// resolveExisting resolves symlinks for the longest existing prefix of path
// and joins the not-yet-existing suffix back on.
func resolveExisting(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	dir, base := filepath.Dir(path), filepath.Base(path)
	if dir == path {
		return path
	}
	return filepath.Join(resolveExisting(dir), base)
}

// EnsureDir makes sure relPath exists as a directory under root, creating
// it if absent and reusing it if present. A non-directory occupying the
// path is an error.
func EnsureDir(root, relPath string, perm os.FileMode) error {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return err
	}
	info, err := os.Stat(resolved)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists and is not a directory", relPath)
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("checking %s: %w", relPath, err)
	}
	if err := os.MkdirAll(resolved, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", relPath, err)
	}
	return nil
}

// CopyFile copies srcRel to dstRel, both relative to root, overwriting any
// existing destination. The copy is verified: content is hashed on both
// sides of the stream and the sizes compared; on mismatch the partial
// destination is removed and an error returned, leaving the source intact.
func CopyFile(root, srcRel, dstRel string) error {
	src, err := ValidatePath(root, srcRel)
	if err != nil {
		return err
	}
	dst, err := ValidatePath(root, dstRel)
	if err != nil {
		return err
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("source %s is a directory", srcRel)
	}

	// Copy onto itself (destination ".", symlinked dir, hardlink): the
	// destination already holds the content. Opening it would truncate
	// the file being read and lose the source.
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(info, dstInfo) {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer func() { _ = out.Close() }()

	srcHash := sha256.New()
	dstHash := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHash), io.TeeReader(in, srcHash))
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copying: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("closing destination: %w", err)
	}

	if written != info.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	if !bytes.Equal(srcHash.Sum(nil), dstHash.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: destination corrupted during copy")
	}
	return nil
}

// Remove deletes a file within the root sandbox.
func Remove(root, relPath string) error {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return err
	}
	return os.Remove(resolved)
}

// HashFile returns the SHA256 of a file under root as a hex string.
func HashFile(root, relPath string) (string, error) {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return "", err
	}
	f, err := os.Open(resolved)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", relPath, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
