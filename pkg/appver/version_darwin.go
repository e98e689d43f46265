package appver

import (
	"os"
)

func (i *Info) initialize() error {
	b, err := os.ReadFile(PlistPath(i.FilePath))
	if err != nil {
		return err
	}
	return i.parsePlist(b)
}
