package jdk

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"

	"github.com/specialistvlad/javelin/internal/ctxlog"
)

// downloadURLTemplate is the Adoptium API endpoint for the latest GA build
// of a JDK feature version.
const downloadURLTemplate = "https://api.adoptium.net/v3/binary/latest/%d/ga/%s/%s/jdk/hotspot/normal/eclipse"

// Manager locates, lists and installs JDKs under the cache directory.
type Manager struct {
	// JdksDir is the cache subdirectory holding one directory per installed
	// feature version.
	JdksDir string

	// Client is used for JDK downloads. Defaults to http.DefaultClient.
	Client *http.Client
}

// NewManager creates a Manager rooted at jdksDir.
func NewManager(jdksDir string) *Manager {
	return &Manager{JdksDir: jdksDir, Client: http.DefaultClient}
}

// CurrentJdk returns the home directory of the JDK satisfying the requested
// version, preferring the environment's JDK when it already matches.
func (m *Manager) CurrentJdk(ctx context.Context, requestedVersion string) (string, error) {
	current := DetermineJavaVersion()
	actual := JavaVersion(requestedVersion)
	if actual == 0 || current == actual {
		if home := os.Getenv("JAVA_HOME"); home != "" {
			return home, nil
		}
	}
	if actual == 0 {
		return "", fmt.Errorf("no JAVA_HOME set and no version requested")
	}
	return m.InstalledJdk(ctx, actual)
}

// InstalledJdk returns the home of an installed feature version, installing
// it first when absent.
func (m *Manager) InstalledJdk(ctx context.Context, version int) (string, error) {
	dir := m.jdkPath(version)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir, nil
	}
	return m.DownloadAndInstallJdk(ctx, version)
}

// DownloadAndInstallJdk fetches the latest GA build of a feature version and
// unpacks it into the cache. A failed install removes its directory so a
// later attempt starts clean.
func (m *Manager) DownloadAndInstallJdk(ctx context.Context, version int) (string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Downloading JDK.", "version", version)

	url := fmt.Sprintf(downloadURLTemplate, version, osName(), archName())
	dir := m.jdkPath(version)

	pkg, err := m.download(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to download JDK %d: %w", version, err)
	}
	defer os.Remove(pkg)

	logger.Info("Installing JDK.", "version", version, "dir", dir)
	if err := unpack(pkg, dir); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to install JDK %d: %w", version, err)
	}
	return dir, nil
}

// ListInstalledJdks returns the sorted feature versions present in the cache.
func (m *Manager) ListInstalledJdks() ([]int, error) {
	entries, err := os.ReadDir(m.JdksDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list JDKs in %s: %w", m.JdksDir, err)
	}

	var versions []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if v, err := strconv.Atoi(e.Name()); err == nil && v > 0 {
			versions = append(versions, v)
		}
	}
	sort.Ints(versions)
	return versions, nil
}

// IsInstalledJdk reports whether a feature version is present in the cache.
func (m *Manager) IsInstalledJdk(version int) bool {
	info, err := os.Stat(m.jdkPath(version))
	return err == nil && info.IsDir()
}

// ResolveInJavaHome returns the path of a JDK tool binary for the requested
// version, or the bare command name when no JDK home can be determined (so
// PATH lookup still applies).
func (m *Manager) ResolveInJavaHome(ctx context.Context, cmd, requestedVersion string) string {
	home, err := m.CurrentJdk(ctx, requestedVersion)
	if err != nil || home == "" {
		return binaryName(cmd)
	}
	return filepath.Join(home, "bin", binaryName(cmd))
}

func (m *Manager) jdkPath(version int) string {
	return filepath.Join(m.JdksDir, strconv.Itoa(version))
}

// download fetches url into a temporary file and returns its path.
func (m *Manager) download(ctx context.Context, url string) (string, error) {
	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	tmp, err := os.CreateTemp("", "javelin-jdk-*")
	if err != nil {
		return "", err
	}
	defer tmp.Close()
	if _, err := tmp.ReadFrom(resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// osName maps GOOS to the Adoptium API's operating system names.
func osName() string {
	switch runtime.GOOS {
	case "darwin":
		return "mac"
	default:
		return runtime.GOOS
	}
}

// archName maps GOARCH to the Adoptium API's architecture names.
func archName() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x64"
	case "386":
		return "x32"
	case "arm64":
		return "aarch64"
	default:
		return runtime.GOARCH
	}
}
