// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package delivery packs a directory of work products into a single
// compressed archive for upload as a project's final delivery. The
// format is a zstd-compressed tar stream. Packing is deterministic:
// the same tree produces the same entry order, so digests computed
// over the archive are stable.
package delivery

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// headerEpoch is the fixed timestamp written into every archive
// header, so identical trees pack to identical bytes.
var headerEpoch = time.Unix(0, 0).UTC()

// ArchiveExtension is appended to the delivery name.
const ArchiveExtension = ".tar.zst"

// Pack writes the contents of root as a zstd-compressed tar stream.
// Entries are ordered lexically by archive path. Regular files and
// directories are included; symlinks are rejected rather than
// followed, since a link pointing outside the root would leak
// unrelated files into the delivery.
func Pack(root string, output io.Writer) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("delivery: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("delivery: %s is not a directory", root)
	}

	entries, err := collectEntries(root)
	if err != nil {
		return err
	}

	compressor, err := zstd.NewWriter(output, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("delivery: zstd encoder initialization failed: %w", err)
	}
	archive := tar.NewWriter(compressor)

	for _, entry := range entries {
		if err := writeEntry(archive, root, entry); err != nil {
			compressor.Close()
			return err
		}
	}

	if err := archive.Close(); err != nil {
		compressor.Close()
		return fmt.Errorf("delivery: finalizing archive: %w", err)
	}
	if err := compressor.Close(); err != nil {
		return fmt.Errorf("delivery: finalizing compression: %w", err)
	}
	return nil
}

// PackFile packs root into a new archive file at outputPath.
func PackFile(root, outputPath string) error {
	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("delivery: creating archive: %w", err)
	}
	if err := Pack(root, output); err != nil {
		output.Close()
		os.Remove(outputPath)
		return err
	}
	if err := output.Close(); err != nil {
		return fmt.Errorf("delivery: closing archive: %w", err)
	}
	return nil
}

// Unpack extracts a delivery archive into destination, which must
// already exist. Entry paths are validated before any write: absolute
// paths and paths escaping the destination (via "..") abort the
// extraction.
func Unpack(input io.Reader, destination string) error {
	decompressor, err := zstd.NewReader(input)
	if err != nil {
		return fmt.Errorf("delivery: zstd decoder initialization failed: %w", err)
	}
	defer decompressor.Close()

	archive := tar.NewReader(decompressor)
	for {
		header, err := archive.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("delivery: reading archive: %w", err)
		}

		target, err := resolveTarget(destination, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("delivery: creating directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("delivery: creating directory for %s: %w", target, err)
			}
			if err := extractFile(archive, target, header.FileInfo().Mode()); err != nil {
				return err
			}
		default:
			return fmt.Errorf("delivery: unsupported entry type %d for %s", header.Typeflag, header.Name)
		}
	}
}

// collectEntries walks the tree and returns archive-relative paths in
// lexical order. filepath.WalkDir already visits lexically, giving
// the deterministic ordering; the explicit sort guards the invariant
// if the walk implementation ever changes.
func collectEntries(root string) ([]string, error) {
	var entries []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			return fmt.Errorf("delivery: %s is a symlink; deliveries may not contain links", path)
		}
		if !entry.IsDir() && !entry.Type().IsRegular() {
			return fmt.Errorf("delivery: %s is not a regular file", path)
		}
		relative, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries = append(entries, filepath.ToSlash(relative))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delivery: walking %s: %w", root, err)
	}
	sort.Strings(entries)
	return entries, nil
}

func writeEntry(archive *tar.Writer, root, entry string) error {
	fullPath := filepath.Join(root, filepath.FromSlash(entry))
	info, err := os.Lstat(fullPath)
	if err != nil {
		return fmt.Errorf("delivery: %w", err)
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("delivery: header for %s: %w", entry, err)
	}
	header.Name = entry
	if info.IsDir() {
		header.Name += "/"
	}
	// Strip owner and timestamps so archives of identical trees are
	// byte-identical regardless of who packs them.
	header.Uid = 0
	header.Gid = 0
	header.Uname = ""
	header.Gname = ""
	header.ModTime = headerEpoch
	header.AccessTime = headerEpoch
	header.ChangeTime = headerEpoch

	if err := archive.WriteHeader(header); err != nil {
		return fmt.Errorf("delivery: writing header for %s: %w", entry, err)
	}
	if info.IsDir() {
		return nil
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return fmt.Errorf("delivery: %w", err)
	}
	defer file.Close()
	if _, err := io.Copy(archive, file); err != nil {
		return fmt.Errorf("delivery: writing %s: %w", entry, err)
	}
	return nil
}

// resolveTarget validates an archive entry name and maps it under the
// destination directory.
func resolveTarget(destination, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("delivery: archive entry %q has an absolute path", name)
	}
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("delivery: archive entry %q escapes the destination", name)
	}
	return filepath.Join(destination, cleaned), nil
}

func extractFile(source io.Reader, target string, mode fs.FileMode) error {
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("delivery: creating %s: %w", target, err)
	}
	if _, err := io.Copy(file, source); err != nil {
		file.Close()
		return fmt.Errorf("delivery: writing %s: %w", target, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("delivery: closing %s: %w", target, err)
	}
	return nil
}
