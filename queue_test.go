package main

import (
	"testing"

	"github.com/vkngwrapper/core/core1_0"
)

func TestResolveQueueFamiliesLastWins(t *testing.T) {
	queueFlags := []core1_0.QueueFlags{
		core1_0.QueueGraphics,
		core1_0.QueueGraphics | core1_0.QueueCompute,
		core1_0.QueueTransfer,
	}
	presentSupport := []bool{true, false, true}

	indices := resolveQueueFamilies(queueFlags, presentSupport)
	if !indices.IsComplete() {
		t.Fatal("expected both families to resolve")
	}

	// Every index is scanned and the final match wins, not the first.
	if *indices.GraphicsFamily != 1 {
		t.Errorf("expected last graphics-capable family 1, got %d", *indices.GraphicsFamily)
	}
	if *indices.PresentFamily != 2 {
		t.Errorf("expected last present-capable family 2, got %d", *indices.PresentFamily)
	}
}

func TestResolveQueueFamiliesMayAlias(t *testing.T) {
	queueFlags := []core1_0.QueueFlags{core1_0.QueueGraphics}
	presentSupport := []bool{true}

	indices := resolveQueueFamilies(queueFlags, presentSupport)
	if !indices.IsComplete() {
		t.Fatal("expected both families to resolve")
	}
	if *indices.GraphicsFamily != *indices.PresentFamily {
		t.Error("expected graphics and present to alias to the same family")
	}
}

func TestResolveQueueFamiliesUnset(t *testing.T) {
	indices := resolveQueueFamilies(nil, nil)
	if indices.GraphicsFamily != nil || indices.PresentFamily != nil {
		t.Error("expected no families to resolve for an empty list")
	}
	if indices.IsComplete() {
		t.Error("empty indices must not report complete")
	}

	indices = resolveQueueFamilies([]core1_0.QueueFlags{core1_0.QueueCompute}, []bool{false})
	if indices.GraphicsFamily != nil {
		t.Error("compute-only family must not resolve as graphics")
	}
	if indices.PresentFamily != nil {
		t.Error("non-presenting family must not resolve as present")
	}
}
