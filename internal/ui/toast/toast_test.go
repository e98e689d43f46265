package toast

import (
	"testing"

	"github.com/sjzar/fluffy/internal/ui/style"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	assert.Equal(t, "", Render(nil))

	out := Render([]Item{
		{Level: LevelSuccess, Message: "注入成功"},
		{Level: LevelError, Message: "[x] denied"},
	})
	assert.Contains(t, out, style.GetColorHex(style.ToastSuccessColor))
	assert.Contains(t, out, style.GetColorHex(style.ToastErrorColor))
	assert.Contains(t, out, "注入成功")
	// tags in messages are escaped
	assert.Contains(t, out, "[x[] denied")
}

func TestColorFallsBackToInfo(t *testing.T) {
	assert.Equal(t, style.ToastInfoColor, Color("whatever"))
	assert.Equal(t, style.ToastWarningColor, Color(LevelWarning))
	assert.Equal(t, "i", Mark(""))
}
