package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "upnpcp") {
		t.Errorf("GetConfigDir() = %v, should contain 'upnpcp'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if reg.Preferences.SearchTimeoutSeconds != 5 {
		t.Errorf("NewRegistry().Preferences.SearchTimeoutSeconds = %v, want 5", reg.Preferences.SearchTimeoutSeconds)
	}
	if reg.Preferences.OutputFormat != "text" {
		t.Errorf("NewRegistry().Preferences.OutputFormat = %v, want text", reg.Preferences.OutputFormat)
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	device1 := reg.EnsureDevice("uuid:aaaa")
	if device1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}

	device2 := reg.EnsureDevice("uuid:aaaa")
	if device1 != device2 {
		t.Error("EnsureDevice() should return same instance for same udn")
	}

	device3 := reg.EnsureDevice("uuid:bbbb")
	if device1 == device3 {
		t.Error("EnsureDevice() should create new instance for different udn")
	}
}

func TestRegistryUpdateDeviceLastSeen(t *testing.T) {
	reg := NewRegistry()

	now := time.Now()
	reg.UpdateDeviceLastSeen("uuid:aaaa", "http://192.168.1.100:80/desc.xml", now)

	device := reg.GetDevice("uuid:aaaa")
	if device == nil {
		t.Fatal("Device should exist after UpdateDeviceLastSeen()")
	}
	if device.LastLocation != "http://192.168.1.100:80/desc.xml" {
		t.Errorf("LastLocation = %v, want the description URL", device.LastLocation)
	}
	if !device.LastSeen.Equal(now) {
		t.Errorf("LastSeen = %v, want %v", device.LastSeen, now)
	}
}

func TestRegistrySetDeviceNickname(t *testing.T) {
	reg := NewRegistry()

	reg.SetDeviceNickname("uuid:aaaa", "Living Room Receiver")

	device := reg.GetDevice("uuid:aaaa")
	if device == nil {
		t.Fatal("Device should exist after SetDeviceNickname()")
	}
	if device.Nickname != "Living Room Receiver" {
		t.Errorf("Nickname = %v, want 'Living Room Receiver'", device.Nickname)
	}
}

func TestRegistryFindByNickname(t *testing.T) {
	reg := NewRegistry()
	reg.SetDeviceNickname("uuid:aaaa", "Living Room Receiver")

	udn, ok := reg.FindByNickname("Living Room Receiver")
	if !ok {
		t.Fatal("FindByNickname() should find the registered nickname")
	}
	if udn != "uuid:aaaa" {
		t.Errorf("FindByNickname() = %v, want uuid:aaaa", udn)
	}

	if _, ok := reg.FindByNickname("nonexistent"); ok {
		t.Error("FindByNickname() should not find an unregistered nickname")
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "upnpcp-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	testConfigPath := filepath.Join(tmpDir, "config.yaml")

	reg := NewRegistry()
	reg.SetDeviceNickname("uuid:aaaa", "Test Device")
	reg.Preferences.DefaultInterface = "eth0"
	reg.Preferences.OutputFormat = "json"

	data, err := marshalRegistry(reg)
	if err != nil {
		t.Fatalf("Failed to marshal registry: %v", err)
	}
	if err := os.WriteFile(testConfigPath, data, 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	loadedReg, err := loadRegistryFromFile(testConfigPath)
	if err != nil {
		t.Fatalf("Failed to load registry: %v", err)
	}

	device := loadedReg.GetDevice("uuid:aaaa")
	if device == nil {
		t.Fatal("Device should exist in loaded registry")
	}
	if device.Nickname != "Test Device" {
		t.Errorf("Loaded nickname = %v, want 'Test Device'", device.Nickname)
	}
	if loadedReg.Preferences.DefaultInterface != "eth0" {
		t.Errorf("Loaded DefaultInterface = %v, want eth0", loadedReg.Preferences.DefaultInterface)
	}
	if loadedReg.Preferences.OutputFormat != "json" {
		t.Errorf("Loaded OutputFormat = %v, want json", loadedReg.Preferences.OutputFormat)
	}
}

func TestLoadRegistryFromFileMissingReturnsDefault(t *testing.T) {
	reg, err := loadRegistryFromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("loadRegistryFromFile() error = %v", err)
	}
	if reg.Preferences.OutputFormat != "text" {
		t.Errorf("missing file should yield default registry, got OutputFormat=%v", reg.Preferences.OutputFormat)
	}
}

func TestLoadRegistryFromFileRejectsUnsupportedVersion(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("version: 2\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := loadRegistryFromFile(path); err == nil {
		t.Error("expected an error for unsupported config version")
	}
}

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

func BenchmarkEnsureDevice(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureDevice("uuid:aaaa")
	}
}
