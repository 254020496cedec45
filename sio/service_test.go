package sio

import (
	"context"
	"testing"

	"github.com/Comcast/temple/core"
	"github.com/Comcast/temple/phrase"
	"github.com/Comcast/temple/scheduler"
	"github.com/Comcast/temple/speller"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestServiceProcess(t *testing.T) {
	s := NewService(testDicta(t))
	s.Logger = zaptest.NewLogger(t)

	r, err := s.Process(context.Background(), "Hello bob. Goodbye.")
	require.NoError(t, err)

	_, err = uuid.Parse(r.Id)
	assert.NoError(t, err)
	assert.Equal(t, "Hello bob. Goodbye.", r.Text)
	assert.Equal(t, 2, r.Input.BranchCount())
	assert.Equal(t, []interface{}{"hi bob", "see you"}, outputs(r))
	assert.Empty(t, r.Error)
}

func TestServiceProcessNothing(t *testing.T) {
	s := NewService(testDicta(t))
	r, err := s.Process(context.Background(), "Nothing to see here.")
	require.NoError(t, err)
	assert.Empty(t, r.Outputs)
}

func TestServiceProcessEmpty(t *testing.T) {
	s := NewService(testDicta(t))
	_, err := s.Process(context.Background(), "  ")
	assert.Equal(t, phrase.ErrEmpty, err)
}

func TestServiceProcessNotes(t *testing.T) {
	var heard []string
	ds := append(testDicta(t), &unsupported{})
	s := NewService(ds)
	s.Receiver = core.ReceiverFunc(func(msg string, x interface{}) {
		heard = append(heard, msg)
	})

	r, err := s.Process(context.Background(), "Whatever.")
	require.NoError(t, err)
	require.Len(t, r.Notes, 1)
	assert.Equal(t, "Template starting with %paragraph not available in serial mode.", r.Notes[0].Msg)
	assert.Equal(t, []string{r.Notes[0].Msg}, heard)
}

func TestServiceProcessLimit(t *testing.T) {
	s := NewService(testDicta(t))
	s.Limit = 1
	r, err := s.Process(context.Background(), "Hello bob.")
	require.NoError(t, err)
	assert.Equal(t, scheduler.TooManyTasks.Error(), r.Error)
}

func TestServiceProcessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewService(testDicta(t))
	_, err := s.Process(ctx, "Hello bob.")
	assert.Equal(t, context.Canceled, err)
}

func TestServiceSpellingRescue(t *testing.T) {
	table := speller.Table{"helo": "hello"}
	strategy, err := core.Chain(core.SpellingLink(table, &phrase.SentenceParser{}, 1))
	require.NoError(t, err)

	s := NewService(testDicta(t))
	s.Strategy = strategy

	r, err := s.Process(context.Background(), "helo bob")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"hi bob"}, outputs(r))
}

func TestServiceSetDicta(t *testing.T) {
	s := NewService(testDicta(t))
	s.SetDicta(nil)
	r, err := s.Process(context.Background(), "Hello bob.")
	require.NoError(t, err)
	assert.Empty(t, r.Outputs)
}

// unsupported is a Dictum with a lead that a Serial driver can't
// use.
type unsupported struct{}

func (*unsupported) Elements() []string {
	return []string{"%paragraph", "whatever"}
}

func (*unsupported) Generate(ctx context.Context, sched core.Scheduler, input *phrase.Phrase, succ core.Succeed, fail core.Fail, weight float64) {
	fail("unsupported", nil)
}
