package migrations

import "embed"

// FS содержит SQL миграции схемы сервиса
//
//go:embed *.sql
var FS embed.FS
