package bindings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"aichannel/pkg/fileutil"
	"aichannel/pkg/logger"
)

// FileStore keeps bindings in a single JSON object file.
//
// Every call reads the whole file and every mutation rewrites it; nothing is
// cached. A missing or malformed file reads as an empty mapping. mu serialises
// read-modify-write within this process only: two processes sharing the file
// can still lose each other's updates.
type FileStore struct {
	log      *logger.Logger
	filePath string
	atomic   bool
	mu       sync.Mutex
}

// FileStoreConfig configures the file store.
type FileStoreConfig struct {
	FilePath string // Path to the bindings file
	// AtomicWrite writes via temp file + rename so a crash cannot leave a
	// truncated file behind.
	AtomicWrite bool
}

// NewFileStore creates a file-backed binding store.
func NewFileStore(log *logger.Logger, cfg *FileStoreConfig) (*FileStore, error) {
	if cfg.FilePath == "" {
		return nil, errors.New("bindings: file path is required")
	}

	if dir := filepath.Dir(cfg.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating bindings directory: %w", err)
		}
	}

	return &FileStore{
		log:      log,
		filePath: cfg.FilePath,
		atomic:   cfg.AtomicWrite,
	}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.filePath
}

// Get returns the bound channel for a guild.
func (s *FileStore) Get(ctx context.Context, guildID string) (string, bool, error) {
	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	channelID, ok := channelString(data[guildID])
	return channelID, ok, nil
}

// Set binds channelID to guildID and rewrites the file.
func (s *FileStore) Set(ctx context.Context, guildID, channelID string) error {
	if err := validID(guildID, channelID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data[guildID] = channelID
	return s.save(data)
}

// Remove deletes the binding for guildID. The file is only rewritten when an
// entry was actually removed.
func (s *FileStore) Remove(ctx context.Context, guildID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return false, err
	}
	if _, ok := data[guildID]; !ok {
		return false, nil
	}
	delete(data, guildID)
	if err := s.save(data); err != nil {
		return false, err
	}
	return true, nil
}

// All returns every binding with a usable channel id.
func (s *FileStore) All(ctx context.Context) (map[string]string, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(data))
	for guildID, v := range data {
		if channelID, ok := channelString(v); ok {
			out[guildID] = channelID
		}
	}
	return out, nil
}

// Close is a no-op; the file store holds no open handles.
func (s *FileStore) Close() error {
	return nil
}

// load reads the full mapping. Unknown value types are kept so a rewrite
// does not drop entries this version cannot interpret.
func (s *FileStore) load() (map[string]interface{}, error) {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("reading bindings file: %w", err)
	}

	var data map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	err = dec.Decode(&data)
	if err == nil {
		// Anything after the object makes the whole file invalid.
		if _, extra := dec.Token(); extra != io.EOF {
			err = errors.New("unexpected data after top-level object")
		}
	}
	if err != nil {
		s.log.Debug("Ignoring unparsable bindings file",
			zap.String("file", s.filePath),
			zap.Error(err))
		return map[string]interface{}{}, nil
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	return data, nil
}

func (s *FileStore) save(data map[string]interface{}) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling bindings: %w", err)
	}

	if s.atomic {
		err = fileutil.WriteFileAtomic(s.filePath, out, 0644)
	} else {
		err = os.WriteFile(s.filePath, out, 0644)
	}
	if err != nil {
		return fmt.Errorf("writing bindings file: %w", err)
	}

	s.log.Debug("Saved bindings", zap.String("file", s.filePath), zap.Int("guilds", len(data)))
	return nil
}
