package publishers

// Logger is the part of the application logger that publishers write to.
// Delivery outcomes go to DebugObj and failures to ErrorObj.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// ensureLogger substitutes a silent logger for nil so builders never nil-check.
func ensureLogger(log Logger) Logger {
	if log != nil {
		return log
	}
	return noopLogger{}
}
