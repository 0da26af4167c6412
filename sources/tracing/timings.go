package tracing

import (
	"time"
)

func ReportExecutionForRE[R any](log *Logger, action func() (R, error), report func(l *Logger, err error)) (R, error) {
	start := time.Now()
	result, err := action()
	report(log.With(ExecutionTime, time.Since(start).String()), err)
	return result, err
}

func ReportExecutionForRIn[R any](log *Logger, action func() R, report func(l *Logger, result R)) R {
	start := time.Now()
	result := action()
	report(log.With(ExecutionTime, time.Since(start).String()), result)
	return result
}

func ReportExecution(log *Logger, action func(), report func(l *Logger)) {
	start := time.Now()
	action()
	report(log.With(ExecutionTime, time.Since(start).String()))
}
