package sio

import (
	"context"
	"sync"

	"github.com/Comcast/temple/core"
	"github.com/Comcast/temple/phrase"
	"github.com/Comcast/temple/scheduler"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service runs a Serial driver over the Dicta for each Utterance.
type Service struct {
	// Strategy is the rescue chain.  Defaults to core.NoRescue.
	Strategy core.Strategy

	// Parser defaults to a phrase.SentenceParser.
	Parser phrase.Parser

	// Receiver, if not nil, also gets every note.
	Receiver core.Receiver

	// Logger defaults to a no-op Logger.
	Logger *zap.Logger

	// Weight is given to the Serial driver.  Defaults to 1.
	Weight float64

	// Limit, if positive, is the most Tasks to run for one
	// Utterance.
	Limit int

	sync.RWMutex
	dicta []core.Dictum
}

// NewService makes a Service with the given Dicta.
func NewService(dicta []core.Dictum) *Service {
	s := &Service{
		Weight: 1,
		Logger: zap.NewNop(),
	}
	s.SetDicta(dicta)
	return s
}

// SetDicta replaces the Dicta.  Utterances already in progress
// aren't affected.
func (s *Service) SetDicta(dicta []core.Dictum) {
	ds := make([]core.Dictum, len(dicta))
	copy(ds, dicta)
	s.Lock()
	s.dicta = ds
	s.Unlock()
}

// Dicta returns the current Dicta.
func (s *Service) Dicta() []core.Dictum {
	s.RLock()
	defer s.RUnlock()
	return s.dicta
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Process parses the text and gathers what the Dicta generate.
//
// An error is returned only for text that can't be parsed or a
// context that ends.  Other problems are reported in the Result.
func (s *Service) Process(ctx context.Context, text string) (*Result, error) {
	parser := s.Parser
	if parser == nil {
		parser = &phrase.SentenceParser{}
	}
	input, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}

	weight := s.Weight
	if weight == 0 {
		weight = 1
	}

	r := &Result{
		Id:      uuid.NewString(),
		Text:    text,
		Input:   input,
		Outputs: make([]interface{}, 0, input.BranchCount()),
	}

	receiver := core.ReceiverFunc(func(msg string, x interface{}) {
		r.Notes = append(r.Notes, Note{
			Msg: msg,
			X:   x,
		})
		if s.Receiver != nil {
			s.Receiver.Receive(msg, x)
		}
	})

	succ := func(x interface{}, _ core.Fail) {
		r.Outputs = append(r.Outputs, x)
	}

	q := scheduler.NewQueue()
	q.Limit = s.Limit

	serial, err := core.NewSerial(receiver, succ, q, s.Strategy, input, s.Dicta(), weight)
	if err != nil {
		return nil, err
	}

	serial.Start(ctx)
	n, err := q.Run(ctx)

	log := s.logger()
	log.Debug("processed",
		zap.String("id", r.Id),
		zap.Int("branches", input.BranchCount()),
		zap.Int("tasks", n),
		zap.Int("dispatches", serial.Dispatches()),
		zap.Int("outputs", len(r.Outputs)))

	switch err {
	case nil:
	case scheduler.TooManyTasks:
		log.Warn("task limit", zap.String("id", r.Id), zap.Int("limit", s.Limit))
		r.Error = err.Error()
	default:
		return nil, err
	}

	return r, nil
}

// Run processes Utterances from the Couplings until every Couplings
// is done or the context ends.
//
// Each Couplings gets its own goroutine.  The first error stops
// everything.
func (s *Service) Run(ctx context.Context, cs ...Couplings) error {
	log := s.logger()

	for _, c := range cs {
		if err := c.Start(ctx); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range cs {
		c := c
		g.Go(func() error {
			in, out, done, err := c.IO(gctx)
			if err != nil {
				return err
			}
			defer close(out)
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-done:
					return nil
				case u := <-in:
					if u == nil {
						continue
					}
					r, err := s.Process(gctx, u.Text)
					if err != nil {
						if gctx.Err() != nil {
							return nil
						}
						log.Warn("process", zap.String("text", u.Text), zap.Error(err))
						r = &Result{
							Text:    u.Text,
							Outputs: []interface{}{},
							Error:   err.Error(),
						}
					}
					if u.Id != "" {
						r.Id = u.Id
					}
					r.ReplyTo = u.ReplyTo
					select {
					case <-gctx.Done():
						return nil
					case out <- r:
					}
				}
			}
		})
	}

	err := g.Wait()

	for _, c := range cs {
		if serr := c.Stop(ctx); serr != nil && err == nil {
			err = serr
		}
	}

	return err
}
