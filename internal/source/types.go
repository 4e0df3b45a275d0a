package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
	// FileNormalizedNewlines is set when \r\n or a lone \r was rewritten to \n.
	FileNormalizedNewlines
	// FileTranscoded is set when the content was decoded from a non UTF-8 encoding.
	FileTranscoded
)

// File captures metadata and content for a single source file.
// Content is always valid UTF-8 with \n line endings.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in characters
}
