package main

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_portability_subset"
)

type QueueFamilyIndices struct {
	GraphicsFamily *int
	PresentFamily  *int
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.GraphicsFamily != nil && i.PresentFamily != nil
}

// resolveQueueFamilies scans every family index in order; the last family
// with graphics capability and, independently, the last family that can
// present to the surface win. The scan never exits early, so a later match
// always replaces an earlier one.
func resolveQueueFamilies(queueFlags []core1_0.QueueFlags, presentSupport []bool) QueueFamilyIndices {
	indices := QueueFamilyIndices{}

	for queueFamilyIdx, flags := range queueFlags {
		if (flags & core1_0.QueueGraphics) != 0 {
			indices.GraphicsFamily = new(int)
			*indices.GraphicsFamily = queueFamilyIdx
		}

		if presentSupport[queueFamilyIdx] {
			indices.PresentFamily = new(int)
			*indices.PresentFamily = queueFamilyIdx
		}
	}

	return indices
}

func (app *App) findQueueFamilies(device core1_0.PhysicalDevice) (QueueFamilyIndices, error) {
	queueFamilies := device.QueueFamilyProperties()

	queueFlags := make([]core1_0.QueueFlags, 0, len(queueFamilies))
	presentSupport := make([]bool, 0, len(queueFamilies))
	for queueFamilyIdx, queueFamily := range queueFamilies {
		queueFlags = append(queueFlags, queueFamily.QueueFlags)

		supported, _, err := app.surface.PhysicalDeviceSurfaceSupport(device, queueFamilyIdx)
		if err != nil {
			return QueueFamilyIndices{}, err
		}
		presentSupport = append(presentSupport, supported)
	}

	return resolveQueueFamilies(queueFlags, presentSupport), nil
}

func (app *App) createLogicalDevice() error {
	indices, err := app.findQueueFamilies(app.physicalDevice)
	if err != nil {
		return err
	}

	if indices.GraphicsFamily == nil {
		return errors.New("failed to find a graphics queue family")
	}

	if indices.PresentFamily == nil {
		return errors.New("failed to find a present queue family")
	}
	app.queueIndices = indices

	uniqueQueueFamilies := []int{*indices.GraphicsFamily}
	if uniqueQueueFamilies[0] != *indices.PresentFamily {
		uniqueQueueFamilies = append(uniqueQueueFamilies, *indices.PresentFamily)
	}

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, queueFamily := range uniqueQueueFamilies {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	var extensionNames []string
	extensionNames = append(extensionNames, requiredDeviceExtensions...)

	// Makes this program compatible with vulkan portability, necessary to run on mobile & mac
	extensions, _, err := app.physicalDevice.EnumerateDeviceExtensionProperties()
	if err != nil {
		return err
	}

	_, supported := extensions[khr_portability_subset.ExtensionName]
	if supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	app.device, _, err = app.physicalDevice.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return err
	}

	app.graphicsQueue = app.device.GetQueue(*indices.GraphicsFamily, 0)
	app.presentQueue = app.device.GetQueue(*indices.PresentFamily, 0)
	return nil
}
