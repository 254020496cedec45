// Package bolt stores dictum libraries in a BoltDB file.
//
// Each library gets its own bucket.  Within a bucket, the library's
// header is at "meta", and its dicta are at "d/000000", "d/000001",
// and so on, which keeps them in order.
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Comcast/temple/dicta"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// NotFound is returned by GetLibrary for an unknown library.
var NotFound = errors.New("library not found")

var (
	metaKey      = []byte("meta")
	dictumPrefix = "d/"
)

type header struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`
}

// Storage is a library store backed by a BoltDB file.
type Storage struct {
	// Logger, if not nil, gets debug logging.
	Logger *zap.Logger

	filename string
	db       *bolt.DB
}

// NewStorage makes a Storage for the given file.  Call Open before
// use.
func NewStorage(filename string) (*Storage, error) {
	if filename == "" {
		return nil, errors.New("no filename")
	}
	return &Storage{
		filename: filename,
	}, nil
}

// Open opens (or creates) the file.
func (s *Storage) Open() error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// Close closes the file.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) debug(msg string, fields ...zap.Field) {
	if s.Logger != nil {
		s.Logger.Debug(msg, fields...)
	}
}

func dictumKey(i int) []byte {
	return []byte(fmt.Sprintf("%s%06d", dictumPrefix, i))
}

// PutLibrary writes the library, replacing any library with the same
// name.
func (s *Storage) PutLibrary(ctx context.Context, l *dicta.Library) error {
	if l.Name == "" {
		return errors.New("library has no name")
	}
	s.debug("PutLibrary", zap.String("library", l.Name), zap.Int("dicta", len(l.Dicta)))

	meta, err := json.Marshal(&header{
		Name: l.Name,
		Doc:  l.Doc,
	})
	if err != nil {
		return err
	}

	vals := make([][]byte, 0, len(l.Dicta))
	for _, d := range l.Dicta {
		if d == nil {
			continue
		}
		js, err := json.Marshal(d)
		if err != nil {
			return err
		}
		vals = append(vals, js)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		name := []byte(l.Name)
		if tx.Bucket(name) != nil {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket(name)
		if err != nil {
			return err
		}
		if err = b.Put(metaKey, meta); err != nil {
			return err
		}
		for i, js := range vals {
			if err = b.Put(dictumKey(i), js); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetLibrary reads the named library.  The dicta are not compiled.
func (s *Storage) GetLibrary(ctx context.Context, name string) (*dicta.Library, error) {
	s.debug("GetLibrary", zap.String("library", name))

	var l *dicta.Library
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(name))
		if b == nil {
			return NotFound
		}

		var h header
		if js := b.Get(metaKey); js != nil {
			if err := json.Unmarshal(js, &h); err != nil {
				return err
			}
		}
		l = &dicta.Library{
			Name:  name,
			Doc:   h.Doc,
			Dicta: make([]*dicta.Dictum, 0, 8),
		}

		c := b.Cursor()
		prefix := []byte(dictumPrefix)
		for k, js := c.Seek(prefix); k != nil && strings.HasPrefix(string(k), dictumPrefix); k, js = c.Next() {
			var d dicta.Dictum
			if err := json.Unmarshal(js, &d); err != nil {
				return fmt.Errorf("%s %s: %w", name, k, err)
			}
			d.Source = s.filename + "#" + name
			l.Dicta = append(l.Dicta, &d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.debug("GetLibrary found", zap.String("library", name), zap.Int("dicta", len(l.Dicta)))

	return l, nil
}

// Libraries lists the names of the stored libraries.
func (s *Storage) Libraries(ctx context.Context) ([]string, error) {
	acc := make([]string, 0, 8)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			acc = append(acc, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// RemLibrary removes the named library.
func (s *Storage) RemLibrary(ctx context.Context, name string) error {
	s.debug("RemLibrary", zap.String("library", name))
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(name))
		if err == bolt.ErrBucketNotFound {
			return NotFound
		}
		return err
	})
}
