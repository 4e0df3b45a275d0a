package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Скобки
	BraceInfo           Code = 1000
	BraceUnmatchedClose Code = 1001
	BraceUnmatchedOpen  Code = 1002

	// Ошибки I/O
	IOLoadFileError   Code = 4001
	IODecodeFileError Code = 4002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	BraceInfo:           "Brace information",
	BraceUnmatchedClose: "Unmatched closing brace",
	BraceUnmatchedOpen:  "Unmatched opening brace",
	IOLoadFileError:     "I/O load file error",
	IODecodeFileError:   "File is not valid text in the requested encoding",
	ObsInfo:             "Observability information",
	ObsTimings:          "Pipeline timings",
}

// ID returns the stable identifier, e.g. "BRC1001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("BRC%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
