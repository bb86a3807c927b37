// Package schemas хранит JSON-схемы входящих событий.
package schemas

import "embed"

//go:embed events
var SchemasFS embed.FS
