package models

// MethodInvocation is the input handed to the remote method runner
type MethodInvocation struct {
	RequestID string   `json:"requestId"`
	Method    string   `json:"method"`
	Args      []string `json:"args"`
}

// NewMethodInvocation creates an invocation of method with a single argument
func NewMethodInvocation(method, arg string) *MethodInvocation {
	return &MethodInvocation{
		RequestID: NewULID(),
		Method:    method,
		Args:      []string{arg},
	}
}
