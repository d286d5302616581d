package etl

import "fmt"

// Этапы пайплайна
const (
	StageLoad      = "load"
	StageTransform = "transform"
	StagePreview   = "preview"
	StageExport    = "export"
	StageUpload    = "upload"
)

// StageError - ошибка этапа пайплайна. Выполнение прерывается на первой ошибке.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
