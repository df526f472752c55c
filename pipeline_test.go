package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadShaderCode(t *testing.T) {
	dir := t.TempDir()

	code := []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x05, 0x01, 0x00}
	err := os.WriteFile(filepath.Join(dir, "vert.spv"), code, 0644)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := loadShaderCode(dir, "vert.spv")
	if err != nil {
		t.Fatalf("expected a word-aligned shader to load, got %v", err)
	}
	if len(loaded) != len(code) {
		t.Errorf("expected %d bytes, got %d", len(code), len(loaded))
	}
}

func TestLoadShaderCodeRejectsUnalignedSize(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "frag.spv"), []byte{0x03, 0x02, 0x23}, 0644)
	if err != nil {
		t.Fatal(err)
	}

	_, err = loadShaderCode(dir, "frag.spv")
	if err == nil {
		t.Error("expected a non-word-aligned shader to be rejected")
	}
}

func TestLoadShaderCodeMissingFile(t *testing.T) {
	_, err := loadShaderCode(t.TempDir(), "vert.spv")
	if err == nil {
		t.Error("expected a missing shader binary to be an error")
	}
}

func TestBytesToBytecode(t *testing.T) {
	// SPIR-V words are little-endian.
	words := bytesToBytecode([]byte{0x03, 0x02, 0x23, 0x07, 0x01, 0x00, 0x00, 0x00})
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("expected SPIR-V magic 0x07230203, got 0x%08x", words[0])
	}
	if words[1] != 1 {
		t.Errorf("expected word 1, got %d", words[1])
	}
}
