package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Comcast/temple/core"
	"github.com/Comcast/temple/dicta"
	"github.com/Comcast/temple/dicta/bolt"
	"github.com/Comcast/temple/interpreters"
	"github.com/Comcast/temple/phrase"
	"github.com/Comcast/temple/speller"
	"github.com/Comcast/temple/tools"

	"go.uber.org/zap"
)

// sources says where to find dicta and spelling help.
type sources struct {
	filenames   []string
	db          string
	stored      []string
	corrections []string
	lexicons    []string
	maxDistance int
	weight      float64
}

// loadDicta reads and compiles the libraries in order: files first,
// then stored libraries.
func (s *sources) loadDicta(ctx context.Context, logger *zap.Logger) ([]core.Dictum, error) {
	var (
		is  = interpreters.Standard(logger)
		acc = make([]core.Dictum, 0, 32)
	)

	add := func(l *dicta.Library) error {
		if err := l.Compile(ctx, is, nil); err != nil {
			return err
		}
		logger.Info("loaded", zap.String("library", l.Name), zap.Int("dicta", len(l.Dicta)))
		acc = append(acc, l.Core()...)
		return nil
	}

	for _, filename := range s.filenames {
		l, err := tools.ReadLibrary(filename)
		if err != nil {
			return nil, err
		}
		if err = add(l); err != nil {
			return nil, err
		}
	}

	if 0 < len(s.stored) {
		if s.db == "" {
			return nil, fmt.Errorf("stored libraries %v without a --db", s.stored)
		}
		st, err := openStorage(s.db, logger)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		for _, name := range s.stored {
			l, err := st.GetLibrary(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("library %s: %w", name, err)
			}
			if err = add(l); err != nil {
				return nil, err
			}
		}
	}

	return acc, nil
}

// strategy makes the rescue chain.  Without any corrections or
// lexicons, there's no rescue.
func (s *sources) strategy(logger *zap.Logger) (core.Strategy, error) {
	var ss speller.Suggesters
	for _, filename := range s.corrections {
		t, err := speller.ReadTable(filename)
		if err != nil {
			return nil, err
		}
		logger.Info("corrections", zap.String("filename", filename), zap.Int("entries", len(t)))
		ss = append(ss, t)
	}
	for _, filename := range s.lexicons {
		f, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		l, err := speller.ReadLexicon(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		if 0 < s.maxDistance {
			l.MaxDistance = s.maxDistance
		}
		logger.Info("lexicon", zap.String("filename", filename), zap.Int("words", l.Len()))
		ss = append(ss, l)
	}

	if len(ss) == 0 {
		return core.NoRescue, nil
	}

	weight := s.weight
	if weight == 0 {
		weight = 1
	}
	return core.Chain(core.SpellingLink(speller.NewCache(ss), &phrase.SentenceParser{}, weight))
}

func openStorage(filename string, logger *zap.Logger) (*bolt.Storage, error) {
	st, err := bolt.NewStorage(filename)
	if err != nil {
		return nil, err
	}
	st.Logger = logger
	if err = st.Open(); err != nil {
		return nil, err
	}
	return st, nil
}
