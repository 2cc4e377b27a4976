// Package ui holds the dossier page templates.
package ui

import "embed"

//go:embed "templates"
var Files embed.FS
