// Package migrations содержит SQL-схему сервиса модерации.
package migrations

import "embed"

// FS встроенные файлы миграций, применяются по порядку имён.
//
//go:embed *.sql
var FS embed.FS
