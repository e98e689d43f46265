package ctx

import "time"

// ToastTTL is how long a toast stays visible.
const ToastTTL = 5 * time.Second

type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

func (l ToastLevel) String() string {
	switch l {
	case ToastSuccess:
		return "success"
	case ToastWarning:
		return "warning"
	case ToastError:
		return "error"
	default:
		return "info"
	}
}

type Toast struct {
	Level   ToastLevel
	Message string
	Created time.Time
}

// Alive reports whether the toast is still within its lifetime at now.
func (t Toast) Alive(now time.Time) bool {
	return now.Sub(t.Created) < ToastTTL
}
