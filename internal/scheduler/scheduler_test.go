package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context) error { return nil }

func TestNew_RejectsBadSpecs(t *testing.T) {
	_, err := New(time.UTC, "not a cron", "0 9 * * 1", Jobs{Refresh: noop, Recap: noop})
	assert.ErrorContains(t, err, "refresh spec")

	_, err = New(time.UTC, "*/30 * * * *", "61 * * * *", Jobs{Refresh: noop, Recap: noop})
	assert.ErrorContains(t, err, "recap spec")

	_, err = New(time.UTC, "*/30 * * * *", "0 9 * * 1", Jobs{Refresh: noop})
	assert.Error(t, err)
}

func TestRunRefresh_CapturesOnlyAfterSuccess(t *testing.T) {
	var refreshes, captures int
	refreshErr := errors.New("offline")
	fail := true

	s, err := New(time.UTC, "*/30 * * * *", "0 9 * * 1", Jobs{
		Refresh: func(context.Context) error {
			refreshes++
			if fail {
				return refreshErr
			}
			return nil
		},
		Recap:   noop,
		Capture: func(context.Context) error { captures++; return nil },
	})
	require.NoError(t, err)

	s.RunRefresh(context.Background())
	assert.Equal(t, 1, refreshes)
	assert.Equal(t, 0, captures)

	fail = false
	s.RunRefresh(context.Background())
	assert.Equal(t, 2, refreshes)
	assert.Equal(t, 1, captures)
}

func TestRunRefresh_SkipsWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int

	s, err := New(time.UTC, "*/30 * * * *", "0 9 * * 1", Jobs{
		Refresh: func(context.Context) error {
			calls++
			close(started)
			<-release
			return nil
		},
		Recap: noop,
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.RunRefresh(context.Background())
		close(done)
	}()
	<-started

	s.RunRefresh(context.Background())
	close(release)
	<-done

	assert.Equal(t, 1, calls)
}

func TestStartStop(t *testing.T) {
	var recaps int
	s, err := New(time.UTC, "*/30 * * * *", "0 9 * * 1", Jobs{
		Refresh: noop,
		Recap:   func(context.Context) error { recaps++; return nil },
	})
	require.NoError(t, err)

	s.Start()
	assert.Len(t, s.cron.Entries(), 2)

	s.RunRecap(context.Background())
	assert.Equal(t, 1, recaps)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
