package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFilename = ".inferctl.yaml"

const (
	DefaultVersion       = "1.2"
	DefaultDistribution  = "ubuntu"
	DefaultWorkDirectory = "/root"
)

type File struct {
	Distribution  string `yaml:"distribution,omitempty"`
	Version       string `yaml:"version,omitempty"`
	InstallFolder string `yaml:"install_folder,omitempty"`
	DownloadURL   string `yaml:"download_url,omitempty"`
	WorkDirectory string `yaml:"work_directory,omitempty"`
}

// Settings is the resolved configuration every operation runs with.
// All fields are non-empty after Resolve.
type Settings struct {
	Distribution  string
	Version       string
	InstallFolder string
	DownloadURL   string
	WorkDirectory string
}

func DefaultPath(root string) string {
	return filepath.Join(root, DefaultConfigFilename)
}

func InstallFolderFor(version string) string {
	return "/opt/infersharp" + version
}

func DownloadURLFor(version string) string {
	return "https://github.com/microsoft/infersharp/releases/download/" +
		"v" + version + "/infersharp-linux64-v" + version + ".tar.gz"
}

func LoadFromFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var cfg File
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config yaml")
	}
	return &cfg, nil
}

func LoadOptional(path string) (*File, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, errors.Wrap(err, "stat config")
	}
	return LoadFromFile(path)
}

// Merge returns f with every non-empty field of override applied on top.
func (f File) Merge(override File) File {
	out := f
	if override.Distribution != "" {
		out.Distribution = override.Distribution
	}
	if override.Version != "" {
		out.Version = override.Version
	}
	if override.InstallFolder != "" {
		out.InstallFolder = override.InstallFolder
	}
	if override.DownloadURL != "" {
		out.DownloadURL = override.DownloadURL
	}
	if override.WorkDirectory != "" {
		out.WorkDirectory = override.WorkDirectory
	}
	return out
}

// Resolve fills defaults. The install folder and download URL follow the
// version unless set explicitly.
func (f File) Resolve() (Settings, error) {
	s := Settings{
		Distribution:  strings.TrimSpace(f.Distribution),
		Version:       strings.TrimSpace(f.Version),
		InstallFolder: strings.TrimSpace(f.InstallFolder),
		DownloadURL:   strings.TrimSpace(f.DownloadURL),
		WorkDirectory: strings.TrimSpace(f.WorkDirectory),
	}
	if s.Distribution == "" {
		s.Distribution = DefaultDistribution
	}
	if s.Version == "" {
		s.Version = DefaultVersion
	}
	if s.InstallFolder == "" {
		s.InstallFolder = InstallFolderFor(s.Version)
	}
	if s.DownloadURL == "" {
		s.DownloadURL = DownloadURLFor(s.Version)
	}
	if s.WorkDirectory == "" {
		s.WorkDirectory = DefaultWorkDirectory
	}

	if !strings.HasPrefix(s.InstallFolder, "/") {
		return Settings{}, errors.Errorf("install_folder must be an absolute path inside the distribution: %q", s.InstallFolder)
	}
	if !strings.HasPrefix(s.WorkDirectory, "/") {
		return Settings{}, errors.Errorf("work_directory must be an absolute path inside the distribution: %q", s.WorkDirectory)
	}
	if s.InstallFolder == "/" {
		return Settings{}, errors.New("install_folder must not be the filesystem root")
	}
	return s, nil
}
