package main

import (
	"testing"
	"time"

	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// The fakes embed the real interfaces and override only what DrawFrame
// calls, so the driver can run against a fake device/queue layer.

type fakeSemaphore struct {
	core1_0.Semaphore
	name string
}

type fakeCommandBuffer struct {
	core1_0.CommandBuffer
	id int
}

type fakeSwapchain struct {
	khr_swapchain.Swapchain
	imageIndex int

	events   *[]string
	signaled []core1_0.Semaphore
}

func (f *fakeSwapchain) AcquireNextImage(timeout time.Duration, semaphore core1_0.Semaphore, fence core1_0.Fence) (int, common.VkResult, error) {
	*f.events = append(*f.events, "acquire")
	f.signaled = append(f.signaled, semaphore)
	return f.imageIndex, core1_0.VKSuccess, nil
}

type fakeQueue struct {
	core1_0.Queue

	events  *[]string
	submits []core1_0.SubmitInfo
}

func (f *fakeQueue) Submit(fence core1_0.Fence, submits []core1_0.SubmitInfo) (common.VkResult, error) {
	*f.events = append(*f.events, "submit")
	f.submits = append(f.submits, submits...)
	return core1_0.VKSuccess, nil
}

type fakeSwapchainExtension struct {
	khr_swapchain.Extension

	events   *[]string
	queues   []core1_0.Queue
	presents []khr_swapchain.PresentInfo
}

func (f *fakeSwapchainExtension) QueuePresent(queue core1_0.Queue, o khr_swapchain.PresentInfo) (common.VkResult, error) {
	*f.events = append(*f.events, "present")
	f.queues = append(f.queues, queue)
	f.presents = append(f.presents, o)
	return core1_0.VKSuccess, nil
}

func TestDrawFrameTargetsAcquiredImage(t *testing.T) {
	commandBuffers := []core1_0.CommandBuffer{
		&fakeCommandBuffer{id: 0},
		&fakeCommandBuffer{id: 1},
	}

	// The submit must carry the acquired index's own command buffer for
	// every image in a 2-image chain, never another index's.
	for imageIndex := 0; imageIndex < len(commandBuffers); imageIndex++ {
		var events []string

		imageAvailable := &fakeSemaphore{name: "image-available"}
		renderFinished := &fakeSemaphore{name: "render-finished"}
		swapchain := &fakeSwapchain{imageIndex: imageIndex, events: &events}
		graphicsQueue := &fakeQueue{events: &events}
		presentQueue := &fakeQueue{events: &events}
		extension := &fakeSwapchainExtension{events: &events}

		driver := &FrameDriver{
			swapchainExtension: extension,
			swapchain:          swapchain,

			graphicsQueue: graphicsQueue,
			presentQueue:  presentQueue,

			commandBuffers: commandBuffers,

			imageAvailableSemaphore: imageAvailable,
			renderFinishedSemaphore: renderFinished,
		}

		err := driver.DrawFrame()
		if err != nil {
			t.Fatalf("DrawFrame failed: %v", err)
		}

		if len(events) != 3 || events[0] != "acquire" || events[1] != "submit" || events[2] != "present" {
			t.Fatalf("expected acquire/submit/present in order, got %v", events)
		}

		if len(swapchain.signaled) != 1 || swapchain.signaled[0] != imageAvailable {
			t.Error("acquire must signal the image-available semaphore")
		}

		if len(graphicsQueue.submits) != 1 {
			t.Fatalf("expected a single submission, got %d", len(graphicsQueue.submits))
		}
		submit := graphicsQueue.submits[0]

		if len(submit.WaitSemaphores) != 1 || submit.WaitSemaphores[0] != imageAvailable {
			t.Error("submit must wait on the image-available semaphore")
		}
		if len(submit.WaitDstStageMask) != 1 || submit.WaitDstStageMask[0] != core1_0.PipelineStageColorAttachmentOutput {
			t.Error("submit must wait at the color-attachment-output stage")
		}
		if len(submit.CommandBuffers) != 1 || submit.CommandBuffers[0] != commandBuffers[imageIndex] {
			t.Errorf("submit must carry the command buffer for acquired image %d", imageIndex)
		}
		if len(submit.SignalSemaphores) != 1 || submit.SignalSemaphores[0] != renderFinished {
			t.Error("submit must signal the render-finished semaphore")
		}

		if len(extension.presents) != 1 {
			t.Fatalf("expected a single present, got %d", len(extension.presents))
		}
		present := extension.presents[0]

		if extension.queues[0] != presentQueue {
			t.Error("present must be enqueued on the present queue")
		}
		if len(present.WaitSemaphores) != 1 || present.WaitSemaphores[0] != renderFinished {
			t.Error("present must wait on the render-finished semaphore")
		}
		if len(present.ImageIndices) != 1 || present.ImageIndices[0] != imageIndex {
			t.Errorf("present must target acquired image %d, got %v", imageIndex, present.ImageIndices)
		}
		if len(present.Swapchains) != 1 || present.Swapchains[0] != swapchain {
			t.Error("present must target the driver's swapchain")
		}
	}
}
