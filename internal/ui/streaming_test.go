// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamingBuffer_FlushAtBatchSize(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.lastFlush = time.Now() // time threshold must not fire

	for i := 0; i < sb.batchSize-1; i++ {
		sb.Write("x")
	}
	_, ok := sb.Flush()
	assert.False(t, ok, "below batch size, within flush interval")

	sb.Write("x")
	content, ok := sb.Flush()
	require.True(t, ok)
	assert.Len(t, content, sb.batchSize)
}

func TestStreamingBuffer_FlushAfterInterval(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("one token")
	sb.lastFlush = time.Now().Add(-time.Second)

	content, ok := sb.Flush()
	require.True(t, ok)
	assert.Equal(t, "one token", content)
}

func TestStreamingBuffer_PreservesTokenOrder(t *testing.T) {
	sb := NewStreamingBuffer()
	want := ""
	for i := 0; i < 40; i++ {
		token := fmt.Sprintf("t%d ", i)
		sb.Write(token)
		want += token
	}

	got := ""
	for {
		content, ok := sb.ForceFlush()
		if !ok {
			break
		}
		got += content
	}
	assert.Equal(t, want, got)
}

func TestStreamingBuffer_ForceFlushIgnoresThresholds(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("a")

	content, ok := sb.ForceFlush()
	require.True(t, ok)
	assert.Equal(t, "a", content)

	_, ok = sb.ForceFlush()
	assert.False(t, ok, "buffer drained")
}

func TestStreamingBuffer_ResetDiscards(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("stale content from abandoned stream")
	sb.Reset()

	_, ok := sb.ForceFlush()
	assert.False(t, ok)
}
