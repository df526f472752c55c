package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

var requiredDeviceExtensions = []string{khr_swapchain.ExtensionName}

// chooseAdapterIndex prefers the first discrete GPU and otherwise falls back
// to the first enumerated adapter. The second return reports whether a
// discrete adapter was found.
func chooseAdapterIndex(deviceTypes []core1_0.PhysicalDeviceType) (int, bool) {
	for i, deviceType := range deviceTypes {
		if deviceType == core1_0.PhysicalDeviceTypeDiscreteGPU {
			return i, true
		}
	}

	return 0, false
}

// firstMissingExtension returns the name of the first required extension the
// device does not advertise, or "" when all are present.
func firstMissingExtension(available map[string]struct{}, required []string) string {
	for _, name := range required {
		_, has := available[name]
		if !has {
			return name
		}
	}

	return ""
}

func (app *App) pickPhysicalDevice() error {
	physicalDevices, _, err := app.instance.EnumeratePhysicalDevices()
	if err != nil {
		return err
	}

	if len(physicalDevices) == 0 {
		return errors.New("failed to find a Vulkan-capable GPU")
	}

	deviceTypes := make([]core1_0.PhysicalDeviceType, 0, len(physicalDevices))
	for _, device := range physicalDevices {
		properties, err := device.Properties()
		if err != nil {
			return err
		}
		deviceTypes = append(deviceTypes, properties.DriverType)
	}

	index, discrete := chooseAdapterIndex(deviceTypes)
	if !discrete {
		fmt.Println("Discrete GPU not found, falling back to first enumerated GPU...")
	}
	app.physicalDevice = physicalDevices[index]

	return app.checkDeviceExtensionSupport()
}

func (app *App) checkDeviceExtensionSupport() error {
	extensions, _, err := app.physicalDevice.EnumerateDeviceExtensionProperties()
	if err != nil {
		return err
	}

	if len(extensions) == 0 {
		return errors.New("device reported zero available extensions")
	}

	available := make(map[string]struct{}, len(extensions))
	for name := range extensions {
		available[name] = struct{}{}
	}

	missing := firstMissingExtension(available, requiredDeviceExtensions)
	if missing != "" {
		return errors.Newf("could not find required device extension %s", missing)
	}

	return nil
}
