package main

import (
	"path/filepath"
	"strings"
)

func deduceFormat(format, filePath string) string {
	if format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".sqlite", ".db":
		return "sqlite"
	case ".index":
		return "index"
	}
	return ""
}
