package query

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"
)

// CacheVersion gates the on-disk record format; stores written with another
// version are discarded when opened
const CacheVersion = 1

const (
	bucketMeta  = "meta"
	bucketFiles = "files"
	keyVersion  = "version"
)

// CachePath returns the location of the editor cache below a user cache
// directory
func CachePath(cacheDir string) string {
	return filepath.Join(cacheDir, "windjammer", "lsp-cache.db")
}

// Record is what the disk cache keeps per file
type Record struct {
	Version  int       `yaml:"version"`
	URI      string    `yaml:"uri"`
	Hash     string    `yaml:"hash"`
	Modified time.Time `yaml:"modified"`
	Symbols  []Symbol  `yaml:"symbols"`
	Imports  []string  `yaml:"imports"`
}

// DiskCache persists symbol and import lists between editor sessions
type DiskCache struct {
	db *bolt.DB
}

// OpenDiskCache opens or creates the cache database at path
func OpenDiskCache(path string) (*DiskCache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		if err != nil {
			return err
		}
		version := strconv.Itoa(CacheVersion)
		if v := meta.Get([]byte(keyVersion)); v != nil && string(v) != version {
			if err := tx.DeleteBucket([]byte(bucketFiles)); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketFiles)); err != nil {
			return err
		}
		return meta.Put([]byte(keyVersion), []byte(version))
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache %s: %w", path, err)
	}
	return &DiskCache{db: db}, nil
}

// Close releases the database file
func (c *DiskCache) Close() error {
	return c.db.Close()
}

// Load returns the record of uri if it was computed from content with the
// given hash. Missing, stale and unreadable records all load as nil;
// unreadable ones are evicted.
func (c *DiskCache) Load(uri, hash string) (*Record, error) {
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketFiles)).Get([]byte(uri)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || data == nil {
		return nil, err
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil || rec.Version != CacheVersion || rec.URI != uri {
		return nil, c.Evict(uri)
	}
	if rec.Hash != hash {
		return nil, nil
	}
	return &rec, nil
}

// Store writes the record of one file, replacing any previous one
func (c *DiskCache) Store(rec *Record) error {
	rec.Version = CacheVersion
	data, err := yaml.Marshal(rec)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketFiles)).Put([]byte(rec.URI), data)
	})
}

// Evict drops the record of one file
func (c *DiskCache) Evict(uri string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketFiles)).Delete([]byte(uri))
	})
}

// Clear drops every record
func (c *DiskCache) Clear() error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketFiles)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketFiles))
		return err
	})
}

// Len returns the number of stored records
func (c *DiskCache) Len() (int, error) {
	n := 0
	err := c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketFiles)).Stats().KeyN
		return nil
	})
	return n, err
}
