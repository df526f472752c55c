package main

import (
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// FrameDriver runs the acquire/submit/present cycle over pre-recorded
// command buffers. Ordering is expressed purely through the two semaphores:
// the submission waits for the acquired image at the color-attachment-output
// stage and presentation waits for rendering to finish. One frame may be in
// flight at a time- there is no per-frame fence bounding command buffer
// reuse, so the cycle must not be re-entered until the prior present has
// retired.
type FrameDriver struct {
	swapchainExtension khr_swapchain.Extension
	swapchain          khr_swapchain.Swapchain

	graphicsQueue core1_0.Queue
	presentQueue  core1_0.Queue

	commandBuffers []core1_0.CommandBuffer

	imageAvailableSemaphore core1_0.Semaphore
	renderFinishedSemaphore core1_0.Semaphore
}

func newFrameDriver(device core1_0.Device, swapchainExtension khr_swapchain.Extension, swapchain khr_swapchain.Swapchain, graphicsQueue core1_0.Queue, presentQueue core1_0.Queue, commandBuffers []core1_0.CommandBuffer) (*FrameDriver, error) {
	imageAvailable, _, err := device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return nil, err
	}

	renderFinished, _, err := device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		imageAvailable.Destroy(nil)
		return nil, err
	}

	return &FrameDriver{
		swapchainExtension: swapchainExtension,
		swapchain:          swapchain,

		graphicsQueue: graphicsQueue,
		presentQueue:  presentQueue,

		commandBuffers: commandBuffers,

		imageAvailableSemaphore: imageAvailable,
		renderFinishedSemaphore: renderFinished,
	}, nil
}

// DrawFrame acquires the next presentable image, submits that image's own
// command buffer, and queues the image for presentation. Only the acquire
// can block the calling thread; submit and present are enqueue operations
// and the GPU runs behind the semaphores.
func (f *FrameDriver) DrawFrame() error {
	imageIndex, _, err := f.swapchain.AcquireNextImage(common.NoTimeout, f.imageAvailableSemaphore, nil)
	if err != nil {
		return err
	}

	_, err = f.graphicsQueue.Submit(nil, []core1_0.SubmitInfo{
		{
			WaitSemaphores:   []core1_0.Semaphore{f.imageAvailableSemaphore},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
			CommandBuffers:   []core1_0.CommandBuffer{f.commandBuffers[imageIndex]},
			SignalSemaphores: []core1_0.Semaphore{f.renderFinishedSemaphore},
		},
	})
	if err != nil {
		return err
	}

	_, err = f.swapchainExtension.QueuePresent(f.presentQueue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{f.renderFinishedSemaphore},
		Swapchains:     []khr_swapchain.Swapchain{f.swapchain},
		ImageIndices:   []int{imageIndex},
	})
	return err
}

func (f *FrameDriver) Destroy() {
	if f.renderFinishedSemaphore != nil {
		f.renderFinishedSemaphore.Destroy(nil)
	}

	if f.imageAvailableSemaphore != nil {
		f.imageAvailableSemaphore.Destroy(nil)
	}
}

func (app *App) createFrameDriver() error {
	frame, err := newFrameDriver(app.device, app.swapchainExtension, app.swapchain, app.graphicsQueue, app.presentQueue, app.commandBuffers)
	if err != nil {
		return err
	}

	app.frame = frame
	return nil
}
