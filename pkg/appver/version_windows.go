package appver

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// initialize 初始化版本信息
func (i *Info) initialize() error {
	var zero windows.Handle
	size, err := windows.GetFileVersionInfoSize(i.FilePath, &zero)
	if err != nil {
		return fmt.Errorf("GetFileVersionInfoSize failed: %w", err)
	}

	verInfo := make([]byte, size)
	if err := windows.GetFileVersionInfo(i.FilePath, 0, size, unsafe.Pointer(&verInfo[0])); err != nil {
		return fmt.Errorf("GetFileVersionInfo failed: %w", err)
	}

	// 获取固定的文件信息
	var fixed *windows.VS_FIXEDFILEINFO
	var fixedLen uint32
	if err := windows.VerQueryValue(unsafe.Pointer(&verInfo[0]), `\`, unsafe.Pointer(&fixed), &fixedLen); err != nil {
		return fmt.Errorf("VerQueryValue failed: %w", err)
	}

	i.FullVersion = fmt.Sprintf("%d.%d.%d.%d",
		fixed.FileVersionMS>>16, fixed.FileVersionMS&0xffff,
		fixed.FileVersionLS>>16, fixed.FileVersionLS&0xffff,
	)
	i.Version = int(fixed.FileVersionMS >> 16)
	i.ProductVersion = fmt.Sprintf("%d.%d.%d.%d",
		fixed.ProductVersionMS>>16, fixed.ProductVersionMS&0xffff,
		fixed.ProductVersionLS>>16, fixed.ProductVersionLS&0xffff,
	)

	// 获取翻译信息
	type langAndCodePage struct {
		language uint16
		codePage uint16
	}

	var translate *langAndCodePage
	var translateLen uint32
	if err := windows.VerQueryValue(unsafe.Pointer(&verInfo[0]), `\VarFileInfo\Translation`, unsafe.Pointer(&translate), &translateLen); err != nil || translateLen == 0 {
		return nil
	}

	stringInfos := map[string]*string{
		"CompanyName":     &i.CompanyName,
		"FileDescription": &i.FileDescription,
		"LegalCopyright":  &i.LegalCopyright,
		"ProductName":     &i.ProductName,
	}

	for name, ptr := range stringInfos {
		subBlock := fmt.Sprintf(`\StringFileInfo\%04x%04x\%s`, translate.language, translate.codePage, name)

		var buffer *uint16
		var bufLen uint32
		if err := windows.VerQueryValue(unsafe.Pointer(&verInfo[0]), subBlock, unsafe.Pointer(&buffer), &bufLen); err != nil || bufLen == 0 {
			continue
		}
		*ptr = windows.UTF16PtrToString(buffer)
	}

	return nil
}
