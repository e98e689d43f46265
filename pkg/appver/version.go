package appver

import (
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"howett.net/plist"
)

type Info struct {
	FilePath        string `json:"file_path"`
	CompanyName     string `json:"company_name"`
	FileDescription string `json:"file_description"`
	Version         int    `json:"version"`
	FullVersion     string `json:"full_version"`
	LegalCopyright  string `json:"legal_copyright"`
	ProductName     string `json:"product_name"`
	ProductVersion  string `json:"product_version"`
}

func New(filePath string) (*Info, error) {
	i := &Info{
		FilePath: filePath,
	}

	err := i.initialize()
	if err != nil {
		return nil, err
	}

	return i, nil
}

// Title 返回用于展示的产品名和版本
func (i *Info) Title() string {
	if i == nil {
		return ""
	}
	name := i.ProductName
	if name == "" {
		name = i.FileDescription
	}
	version := i.FullVersion
	if version == "" {
		version = i.ProductVersion
	}
	return strings.TrimSpace(name + " " + version)
}

const (
	InfoFile = "Info.plist"
)

type Plist struct {
	CFBundleName               string `plist:"CFBundleName"`
	CFBundleShortVersionString string `plist:"CFBundleShortVersionString"`
	NSHumanReadableCopyright   string `plist:"NSHumanReadableCopyright"`
}

// PlistPath maps X.app/Contents/MacOS/bin to X.app/Contents/Info.plist.
func PlistPath(exePath string) string {
	return filepath.Join(filepath.Dir(filepath.Dir(exePath)), InfoFile)
}

// parsePlist fills i from the content of an Info.plist.
func (i *Info) parsePlist(b []byte) error {
	p := Plist{}
	if _, err := plist.Unmarshal(b, &p); err != nil {
		return err
	}

	i.ProductName = p.CFBundleName
	i.FullVersion = p.CFBundleShortVersionString
	i.ProductVersion = p.CFBundleShortVersionString
	i.Version, _ = strconv.Atoi(strings.Split(i.FullVersion, ".")[0])
	i.LegalCopyright = p.NSHumanReadableCopyright
	return nil
}

// Cache remembers lookups per path, failures included, so the UI can ask
// on every redraw.
type Cache struct {
	mu    sync.Mutex
	infos map[string]*Info
}

func NewCache() *Cache {
	return &Cache{infos: make(map[string]*Info)}
}

// Get returns the metadata of filePath, or nil if it has none.
func (c *Cache) Get(filePath string) *Info {
	if filePath == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if info, ok := c.infos[filePath]; ok {
		return info
	}
	info, err := New(filePath)
	if err != nil {
		logrus.WithError(err).WithField("file", filePath).Debug("read version info failed")
		info = nil
	}
	c.infos[filePath] = info
	return info
}
