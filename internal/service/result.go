package service

import "fmt"

// WriteResult is the reply of a guarded write.
type WriteResult struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	ID       uint   `json:"id,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func success(format string, args ...interface{}) *WriteResult {
	return &WriteResult{Status: "success", Message: fmt.Sprintf(format, args...)}
}

func activeWord(active bool) string {
	if active {
		return "activated"
	}
	return "deactivated"
}
