package storage

import (
	"ecotracker/internal/models"
	"ecotracker/internal/providers"
	"ecotracker/internal/storage/interfaces"
	"fmt"
	json "github.com/goccy/go-json"
	"os"
	"path/filepath"
	"sync"
)

const fileStoreVersion = 1

type storeFile struct {
	Version int                        `json:"version"`
	Records map[string]json.RawMessage `json:"records"`
}

// FileStore keeps the whole key space in memory and writes it through to a
// single zstd-compressed file on every Set.
type FileStore struct {
	mu         sync.RWMutex
	path       string
	records    map[string]json.RawMessage
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileStore(path string, compressor interfaces.CompressorInterface, logger providers.Logger) *FileStore {
	return &FileStore{
		path:       path,
		records:    make(map[string]json.RawMessage),
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileStore) Get(key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	val, ok := f.records[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	return append([]byte(nil), val...), nil
}

// Set keeps memory and disk in step: if the write fails the previous value is restored.
func (f *FileStore) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, existed := f.records[key]
	f.records[key] = append(json.RawMessage(nil), value...)

	if err := f.flush(); err != nil {
		if existed {
			f.records[key] = prev
		} else {
			delete(f.records, key)
		}
		return fmt.Errorf("%w: set %s: %w", models.ErrStorageFailure, key, err)
	}
	return nil
}

func (f *FileStore) Keys(prefix string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return sortedKeys(f.records, prefix), nil
}

// Load replaces the in-memory records with the file contents. A missing file
// is an empty store.
func (f *FileStore) Load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("%w: decompress %s: %w", models.ErrStorageFailure, f.path, err)
	}

	var file storeFile
	if err := json.Unmarshal(decompressed, &file); err != nil {
		return fmt.Errorf("%w: decode %s: %w", models.ErrStorageFailure, f.path, err)
	}
	if file.Version != fileStoreVersion {
		f.logger.Warnf(providers.TypeStorage, "Store file %s has version %d, expected %d", f.path, file.Version, fileStoreVersion)
	}
	if file.Records == nil {
		file.Records = make(map[string]json.RawMessage)
	}

	f.mu.Lock()
	f.records = file.Records
	f.mu.Unlock()

	f.logger.Infof(providers.TypeStorage, "Loaded %d records from %s", len(file.Records), f.path)
	return nil
}

// flush must be called with f.mu held.
func (f *FileStore) flush() error {
	jsonData, err := json.Marshal(storeFile{Version: fileStoreVersion, Records: f.records})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}
