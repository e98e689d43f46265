package ctx

import (
	"github.com/sjzar/fluffy/internal/errors"
)

// AddLibrary appends path to the library list unless it is already there.
func (c *Context) AddLibrary(path string) error {
	if path == "" {
		return errors.RequiredParam("path")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if contains(c.dlls, path) {
		return errors.LibraryDuplicate(path)
	}
	c.dlls = append(c.dlls, path)
	return c.persistLibraries()
}

// RemoveLibrary drops entry i and keeps the selection pointing at the same
// library, or clears it if that library was the one removed.
func (c *Context) RemoveLibrary(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.dlls) {
		return errors.InvalidIndex(i, len(c.dlls))
	}
	delete(c.missing, c.dlls[i])
	c.dlls = append(c.dlls[:i], c.dlls[i+1:]...)

	switch {
	case c.selectedDLL == i:
		c.selectedDLL = -1
	case c.selectedDLL > i:
		c.selectedDLL--
	}
	return c.persistLibraries()
}

func (c *Context) SelectLibrary(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.dlls) {
		return errors.InvalidIndex(i, len(c.dlls))
	}
	c.selectedDLL = i
	return nil
}

// SelectedLibrary returns the selected index.
func (c *Context) SelectedLibrary() (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectedDLL, c.selectedDLL >= 0
}

func (c *Context) SelectedLibraryPath() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selectedDLL < 0 || c.selectedDLL >= len(c.dlls) {
		return "", false
	}
	return c.dlls[c.selectedDLL], true
}

// LibraryPaths returns a copy of the library list.
func (c *Context) LibraryPaths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]string, len(c.dlls))
	copy(list, c.dlls)
	return list
}

func (c *Context) Libraries() []Library {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]Library, len(c.dlls))
	for i, path := range c.dlls {
		list[i] = Library{
			Path:     path,
			Selected: i == c.selectedDLL,
			Missing:  c.missing[path],
		}
	}
	return list
}

// SetLibraryMissing records whether the file behind path currently exists.
func (c *Context) SetLibraryMissing(path string, missing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !contains(c.dlls, path) {
		return
	}
	if missing {
		c.missing[path] = true
	} else {
		delete(c.missing, path)
	}
}

func (c *Context) persistLibraries() error {
	list := make([]string, len(c.dlls))
	copy(list, c.dlls)
	return c.persist("dlls", list)
}
