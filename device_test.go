package main

import (
	"testing"

	"github.com/vkngwrapper/core/core1_0"
)

func TestChooseAdapterPrefersDiscrete(t *testing.T) {
	deviceTypes := []core1_0.PhysicalDeviceType{
		core1_0.PhysicalDeviceTypeIntegratedGPU,
		core1_0.PhysicalDeviceTypeDiscreteGPU,
		core1_0.PhysicalDeviceTypeDiscreteGPU,
	}

	index, discrete := chooseAdapterIndex(deviceTypes)
	if !discrete {
		t.Error("expected a discrete adapter to be found")
	}
	if index != 1 {
		t.Errorf("expected first discrete adapter at index 1, got %d", index)
	}
}

func TestChooseAdapterFallsBackToFirst(t *testing.T) {
	deviceTypes := []core1_0.PhysicalDeviceType{
		core1_0.PhysicalDeviceTypeIntegratedGPU,
		core1_0.PhysicalDeviceTypeCPU,
	}

	index, discrete := chooseAdapterIndex(deviceTypes)
	if discrete {
		t.Error("no discrete adapter exists in the list")
	}
	if index != 0 {
		t.Errorf("expected fallback to index 0, got %d", index)
	}
}

func TestChooseAdapterEmptyList(t *testing.T) {
	// An empty enumeration is rejected before selection runs; the chooser
	// itself reports the no-discrete fallback.
	index, discrete := chooseAdapterIndex(nil)
	if discrete {
		t.Error("an empty adapter list has no discrete adapter")
	}
	if index != 0 {
		t.Errorf("expected fallback index 0, got %d", index)
	}
}

func TestFirstMissingExtension(t *testing.T) {
	available := map[string]struct{}{
		"VK_KHR_swapchain":    {},
		"VK_KHR_maintenance1": {},
	}

	if missing := firstMissingExtension(available, []string{"VK_KHR_swapchain"}); missing != "" {
		t.Errorf("expected no missing extension, got %s", missing)
	}

	missing := firstMissingExtension(available, []string{"VK_KHR_swapchain", "VK_EXT_descriptor_indexing", "VK_EXT_mesh_shader"})
	if missing != "VK_EXT_descriptor_indexing" {
		t.Errorf("expected first missing extension to be reported, got %q", missing)
	}
}
