package source

import (
	"path/filepath"
	"slices"
	"unicode/utf8"

	"fortio.org/safecast"
)

// normalizeNewlines переводит \r\n и одиночные \r в \n.
// Возвращает новый слайс и флаг: были ли замены.
func normalizeNewlines(content []byte) ([]byte, bool) {
	// Быстрый путь: если нет \r, возвращаем как есть.
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	i := 0
	for i < len(content) {
		if content[i] != '\r' {
			out = append(out, content[i])
			i++
			continue
		}
		out = append(out, '\n')
		if i+1 < len(content) && content[i+1] == '\n' {
			i += 2
		} else {
			i++
		}
	}
	return out, true
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// buildLineIndex records the byte offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 64)
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				// файлы больше 4 GiB не поддерживаются
				break
			}
			out = append(out, off)
		}
	}
	return out
}

// lineStart returns the byte offset where the 0-based line begins.
func lineStart(lineIdx []uint32, line int) uint32 {
	if line == 0 {
		return 0
	}
	return lineIdx[line-1] + 1
}

// toLineCol converts a byte offset into a 1-based line and a 1-based
// character column.
func toLineCol(content []byte, lineIdx []uint32, off uint32) LineCol {
	lenContent, err := safecast.Conv[uint32](len(content))
	if err != nil {
		lenContent = ^uint32(0)
	}
	if off > lenContent {
		off = lenContent
	}

	// бинпоиск: количество переводов строк строго до off
	line, _ := slices.BinarySearch(lineIdx, off)

	start := lineStart(lineIdx, line)
	col := utf8.RuneCount(content[start:off]) + 1
	col32, err := safecast.Conv[uint32](col)
	if err != nil {
		col32 = ^uint32(0)
	}
	line32, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		line32 = ^uint32(0)
	}
	return LineCol{Line: line32, Col: col32}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
