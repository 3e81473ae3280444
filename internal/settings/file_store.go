package settings

import (
	"context"
	"maps"
	"os"
	"sync"
	"telemetryd/internal/providers"

	json "github.com/goccy/go-json"
)

type fileFormat struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

const fileFormatVersion = 1

// FileStore keeps the settings in memory and rewrites the whole file on
// every Set. Other processes (the CLI) write the same file, so every call
// first rereads it when its stat changed since we last saw it.
type FileStore struct {
	mu         sync.Mutex
	path       string
	values     map[string]string
	seen       os.FileInfo
	compressor CompressorInterface
	logger     providers.Logger
}

func NewFileStore(path string, compressor CompressorInterface, logger providers.Logger) *FileStore {
	return &FileStore{
		path:       path,
		values:     make(map[string]string),
		compressor: compressor,
		logger:     logger,
	}
}

// Get serves from memory when the file cannot be reread.
func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.refresh(false); err != nil {
		f.logger.Warnf(providers.TypeApp, "Settings file %s not reread: %s", f.path, err)
	}
	v, ok := f.values[key]
	return v, ok, nil
}

// Set never overwrites a file it could not read.
func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.refresh(false); err != nil {
		return err
	}

	prev, had := f.values[key]
	f.values[key] = value
	if err := f.save(); err != nil {
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

func (f *FileStore) Load(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refresh(true)
}

func (f *FileStore) Flush(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.refresh(false); err != nil {
		return err
	}
	return f.save()
}

// refresh replaces the in-memory values with the file contents when the
// file changed since the last read or write. A missing file keeps memory.
// Must be called with mu held.
func (f *FileStore) refresh(force bool) error {
	info, err := os.Stat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.seen = nil
			return nil
		}
		return err
	}
	if !force && f.seen != nil && os.SameFile(f.seen, info) &&
		f.seen.ModTime().Equal(info.ModTime()) && f.seen.Size() == info.Size() {
		return nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}
	var stored fileFormat
	if err := json.Unmarshal(decompressed, &stored); err != nil {
		return err
	}
	if stored.Version != fileFormatVersion {
		f.logger.Warnf(providers.TypeApp, "Settings file %s has version %d, expected %d", f.path, stored.Version, fileFormatVersion)
	}

	values := make(map[string]string, len(stored.Values))
	maps.Copy(values, stored.Values)
	f.values = values
	f.seen = info
	return nil
}

func (f *FileStore) Close() error {
	f.compressor.Close()
	return nil
}

// save must be called with mu held.
func (f *FileStore) save() error {
	jsonData, err := json.Marshal(fileFormat{Version: fileFormatVersion, Values: f.values})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
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

	if err = os.Rename(tmpFile, f.path); err != nil {
		return err
	}
	if info, err := os.Stat(f.path); err == nil {
		f.seen = info
	}
	return nil
}
