package checklist

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда у услуги нет активного шаблона чек-листа
	ErrTemplateNotFound = errors.New("checklist.repository: active template not found")

	// ErrChecklistNotFound возвращается, когда чек-лист бронирования не найден
	ErrChecklistNotFound = errors.New("checklist.repository: checklist not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("checklist.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("checklist.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("checklist.repository: failed to scan row")
)
