// Package checkpoint persists search state so long runs can be interrupted
// and resumed: the record walker's compact JSON snapshot and the
// enumerator's restart frontier, which can grow large and is stored
// LZ4-compressed.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Sumatoshi-tech/zaremba/pkg/walker"
	"github.com/Sumatoshi-tech/zaremba/pkg/waterfall"
)

// MetadataVersion is the current checkpoint format version.
const MetadataVersion = 1

// ErrVersionMismatch indicates a checkpoint written by an incompatible
// format version.
var ErrVersionMismatch = errors.New("checkpoint version mismatch")

// File and directory permissions for checkpoint state.
const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// Checkpoint file names inside the manager's directory.
const (
	walkFile     = "walk.json"
	restartsFile = "restarts.lz4"
	enumMetaFile = "enumerate.json"
)

// WalkState wraps the walker checkpoint with format metadata.
type WalkState struct {
	Version   int               `json:"version"`
	CreatedAt string            `json:"created_at"`
	Walk      walker.Checkpoint `json:"walk"`
}

// EnumState records a batched enumeration's progress: the bound reached and
// where the compressed restart frontier lives.
type EnumState struct {
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
	Bound     string `json:"bound"`
	Restarts  int    `json:"restarts"`
}

// DefaultDir returns the default checkpoint directory (~/.zaremba).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return filepath.Join(home, ".zaremba")
}

// Manager reads and writes checkpoint state under a single directory.
type Manager struct {
	Dir string
}

// NewManager creates a checkpoint manager rooted at dir.
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = DefaultDir()
	}

	return &Manager{Dir: dir}
}

// WalkPath returns the path of the walker checkpoint file.
func (m *Manager) WalkPath() string {
	return filepath.Join(m.Dir, walkFile)
}

// HasWalk reports whether a walker checkpoint exists.
func (m *Manager) HasWalk() bool {
	_, err := os.Stat(m.WalkPath())

	return err == nil
}

// SaveWalk writes the walker checkpoint atomically (write-then-rename).
func (m *Manager) SaveWalk(cp walker.Checkpoint) error {
	state := WalkState{
		Version:   MetadataVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Walk:      cp,
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal walk checkpoint: %w", err)
	}

	return m.writeFile(walkFile, data)
}

// LoadWalk reads the walker checkpoint.
func (m *Manager) LoadWalk() (walker.Checkpoint, error) {
	data, err := os.ReadFile(m.WalkPath())
	if err != nil {
		return walker.Checkpoint{}, fmt.Errorf("read walk checkpoint: %w", err)
	}

	var state WalkState

	err = json.Unmarshal(data, &state)
	if err != nil {
		return walker.Checkpoint{}, fmt.Errorf("unmarshal walk checkpoint: %w", err)
	}

	if state.Version != MetadataVersion {
		return walker.Checkpoint{}, fmt.Errorf("%w: have %d, want %d", ErrVersionMismatch, state.Version, MetadataVersion)
	}

	return state.Walk, nil
}

// SaveEnum writes the enumeration frontier and its metadata.
func (m *Manager) SaveEnum(restarts []waterfall.Restart, bound string) error {
	blob, err := CompressRestarts(restarts)
	if err != nil {
		return err
	}

	err = m.writeFile(restartsFile, blob)
	if err != nil {
		return err
	}

	state := EnumState{
		Version:   MetadataVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Bound:     bound,
		Restarts:  len(restarts),
	}

	meta, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal enum checkpoint: %w", err)
	}

	return m.writeFile(enumMetaFile, meta)
}

// HasEnum reports whether an enumeration checkpoint exists.
func (m *Manager) HasEnum() bool {
	_, err := os.Stat(filepath.Join(m.Dir, enumMetaFile))

	return err == nil
}

// LoadEnum reads the enumeration frontier and the bound it was taken at.
func (m *Manager) LoadEnum() ([]waterfall.Restart, string, error) {
	meta, err := os.ReadFile(filepath.Join(m.Dir, enumMetaFile))
	if err != nil {
		return nil, "", fmt.Errorf("read enum checkpoint: %w", err)
	}

	var state EnumState

	err = json.Unmarshal(meta, &state)
	if err != nil {
		return nil, "", fmt.Errorf("unmarshal enum checkpoint: %w", err)
	}

	if state.Version != MetadataVersion {
		return nil, "", fmt.Errorf("%w: have %d, want %d", ErrVersionMismatch, state.Version, MetadataVersion)
	}

	blob, err := os.ReadFile(filepath.Join(m.Dir, restartsFile))
	if err != nil {
		return nil, "", fmt.Errorf("read restart frontier: %w", err)
	}

	restarts, err := DecompressRestarts(blob)
	if err != nil {
		return nil, "", err
	}

	if len(restarts) != state.Restarts {
		return nil, "", fmt.Errorf("restart frontier has %d entries, metadata says %d", len(restarts), state.Restarts)
	}

	return restarts, state.Bound, nil
}

// Clear removes all checkpoint state.
func (m *Manager) Clear() error {
	_, statErr := os.Stat(m.Dir)
	if os.IsNotExist(statErr) {
		return nil
	}

	err := os.RemoveAll(m.Dir)
	if err != nil {
		return fmt.Errorf("remove checkpoint dir: %w", err)
	}

	return nil
}

func (m *Manager) writeFile(name string, data []byte) error {
	err := os.MkdirAll(m.Dir, dirPerm)
	if err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	path := filepath.Join(m.Dir, name)
	tmp := path + ".tmp"

	err = os.WriteFile(tmp, data, filePerm)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	err = os.Rename(tmp, path)
	if err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}

	return nil
}
