package model

// Process is one row of a process table snapshot.
// PID identifies the process only within the snapshot that carried it.
type Process struct {
	Name    string `json:"name"`
	PID     uint32 `json:"pid"`
	ExePath string `json:"exe_path"`
}
