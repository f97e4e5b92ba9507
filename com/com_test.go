package com

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitAsync(t *testing.T) {
	subtests := []struct {
		name  string
		input WaiterFunc
		error error
	}{
		{"no_error", func() error { return nil }, nil},
		{"error", func() error { return io.EOF }, io.EOF},
		{"sleep_no_error", func() error { time.Sleep(time.Millisecond * 50); return nil }, nil},
		{"sleep_error", func() error { time.Sleep(time.Millisecond * 50); return io.EOF }, io.EOF},
	}

	for _, st := range subtests {
		t.Run(st.name, func(t *testing.T) {
			ctx := context.Background()
			errs := WaitAsync(ctx, st.input)
			require.NotNil(t, errs)

			if st.error != nil {
				select {
				case e, ok := <-errs:
					require.True(t, ok, "channel should not be closed yet")
					require.Equal(t, st.error, e)
				case <-time.After(time.Second):
					require.Fail(t, "channel should not block")
				}
			}

			select {
			case _, ok := <-errs:
				require.False(t, ok, "channel should be closed")
			case <-time.After(time.Second):
				require.Fail(t, "channel should not block")
			}
		})
	}
}

func TestCopyFirst(t *testing.T) {
	t.Run("closed-empty", func(t *testing.T) {
		ctx := context.Background()
		ch := make(chan string)
		close(ch)

		_, forward, err := CopyFirst(ctx, ch)
		require.Error(t, err)
		require.Nil(t, forward)
	})

	t.Run("forwards-all", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		input := []string{"a", "b", "c"}
		ch := make(chan string)
		go func() {
			defer close(ch)
			for _, v := range input {
				ch <- v
			}
		}()

		first, forward, err := CopyFirst(ctx, ch)
		require.NoError(t, err)
		require.Equal(t, "a", first)

		var got []string
		for v := range forward {
			got = append(got, v)
		}
		require.Equal(t, input, got)
	})

	t.Run("cancel-ctx", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		first, forward, err := CopyFirst(ctx, make(chan int))

		require.Error(t, err)
		require.Nil(t, forward)
		require.Empty(t, first)
	})
}
