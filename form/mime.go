package form

import (
	"path/filepath"
	"strings"
)

// defaultMIMEType is the fallback for unknown or missing extensions.
const defaultMIMEType = "application/octet-stream"

// mimeTypes maps lowercase filename extensions to MIME types. The table is
// self-contained so lookups stay deterministic across hosts, unlike
// [mime.TypeByExtension] which consults the system mime.types database.
var mimeTypes = map[string]string{
	".aac":   "audio/aac",
	".avif":  "image/avif",
	".bin":   "application/octet-stream",
	".bmp":   "image/bmp",
	".css":   "text/css",
	".csv":   "text/csv",
	".gif":   "image/gif",
	".gz":    "application/gzip",
	".htm":   "text/html",
	".html":  "text/html",
	".ico":   "image/vnd.microsoft.icon",
	".jpeg":  "image/jpeg",
	".jpg":   "image/jpeg",
	".js":    "text/javascript",
	".json":  "application/json",
	".mjs":   "text/javascript",
	".mp3":   "audio/mpeg",
	".mp4":   "video/mp4",
	".mpeg":  "video/mpeg",
	".oga":   "audio/ogg",
	".ogg":   "audio/ogg",
	".ogv":   "video/ogg",
	".otf":   "font/otf",
	".pdf":   "application/pdf",
	".png":   "image/png",
	".svg":   "image/svg+xml",
	".tar":   "application/x-tar",
	".tif":   "image/tiff",
	".tiff":  "image/tiff",
	".txt":   "text/plain",
	".wav":   "audio/wav",
	".weba":  "audio/webm",
	".webm":  "video/webm",
	".webp":  "image/webp",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".xml":   "application/xml",
	".zip":   "application/zip",
}

// MIMEType returns the MIME type for filename based on its extension. The
// lookup is total: unknown or missing extensions resolve to
// application/octet-stream.
func MIMEType(filename string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}

	return defaultMIMEType
}
